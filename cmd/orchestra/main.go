// Orchestra compiles keyframe timelines and inspects or previews them.
//
// Usage:
//
//	# Print the compiled clips of a timeline document
//	orchestra compile timeline.yaml
//
//	# Evaluate one field at a time
//	orchestra sample timeline.yaml --object cube --field alpha --at 1.5
//
//	# Recompile on every save
//	orchestra watch timeline.yaml
//
//	# Play the timeline in a window
//	orchestra preview timeline.yaml --loop
package main

func main() {
	Execute()
}
