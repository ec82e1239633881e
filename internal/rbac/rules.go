package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"viewer": {
		"rubric:view",
	},
	"grader": {
		"rubric:view",
		"evaluation:create",
	},
	"admin": {
		"*", // everything
	},
}
