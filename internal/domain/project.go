package domain

// ConfigFileName is the project configuration file searched for upward.
const ConfigFileName = "prebundle.yaml"

// StateDir holds logs and other local state under the project root.
const StateDir = ".prebundle"

// ProjectSpec describes a project to initialize.
type ProjectSpec struct {
	Root string
}
