// Package imports rewrites component source so its imports match the
// project's alias configuration.
package imports
