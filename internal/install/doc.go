// Package install implements "add": it resolves components with their
// internal dependencies, fetches and rewrites their files, writes them into
// the project and installs the npm packages they need.
//
// Run is the whole pipeline. BuildPlan, Apply and InstallDependencies are
// exposed separately for callers that want to stop between steps.
package install
