package rbac

// Default policy for the quiz service. Students drive their own sessions;
// admin sees everything.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:start",
		"quiz:play",
		"quiz:submit",
		"attempt:view-own",
	},
	"admin": {
		"*",
	},
}
