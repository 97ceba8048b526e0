// Package deps decides which npm packages a component install needs. It
// reads declared and installed versions from the project, classifies each
// required range as satisfied or needing an install, checks mandatory
// baseline requirements, and runs the project's package manager.
package deps
