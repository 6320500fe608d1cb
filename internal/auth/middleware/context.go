package auth

import "context"

type ctxKey string

const ctxKeyStudent ctxKey = "student"

func WithStudent(ctx context.Context, studentID string) context.Context {
	return context.WithValue(ctx, ctxKeyStudent, studentID)
}

func StudentFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyStudent); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
