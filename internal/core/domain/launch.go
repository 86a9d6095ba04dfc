package domain

// BuildPlanName is the name this plugin uses for its build-script
// capability when exchanging plan metadata with the surrounding pipeline.
const BuildPlanName = "node_build_scripts"

// BuildPlan declares what this plugin provides to and requires from the
// surrounding pipeline. Pure metadata; it has no runtime effect on the build.
type BuildPlan struct {
	Provides []string
	Requires []string
}

// DefaultBuildPlan is the plan declared when a yarn project is detected.
func DefaultBuildPlan() BuildPlan {
	return BuildPlan{
		Provides: []string{"yarn", "node_modules", BuildPlanName},
		Requires: []string{"node", "yarn", "node_modules", BuildPlanName},
	}
}

// LaunchProcess is a named process the pipeline may run to serve the built
// application.
type LaunchProcess struct {
	Type    string
	Command []string
	Default bool
}

// DefaultWebProcess is the process emitted when the project declares a
// start script and does not define its own process list.
func DefaultWebProcess() LaunchProcess {
	return LaunchProcess{
		Type:    "web",
		Command: []string{"yarn", "start"},
		Default: true,
	}
}
