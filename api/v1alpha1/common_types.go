package v1alpha1

// NOTE: Module and component status is written by the bindery runtime; the
// troubleshooter only reads it (except for the explicit start request).

type DependencyMode string

type ConfigurationPolicy string

const (
	DependencyModeRequired DependencyMode = "required"
	DependencyModeOptional DependencyMode = "optional"

	ConfigurationPolicyOptional ConfigurationPolicy = "optional"
	ConfigurationPolicyRequire  ConfigurationPolicy = "require"
	ConfigurationPolicyIgnore   ConfigurationPolicy = "ignore"
)

// Module lifecycle phases as reported in ModuleManifest status.
const (
	ModulePhaseUninstalled = "Uninstalled"
	ModulePhaseInstalled   = "Installed"
	ModulePhaseResolved    = "Resolved"
	ModulePhaseStarting    = "Starting"
	ModulePhaseActive      = "Active"
	ModulePhaseStopping    = "Stopping"
)
