// Package tags reads the quadrant tag store: a JSON mapping from video
// filename to its source path and screen quadrants. The batch orchestrator
// uses it to discover which videos are alignment references.
package tags
