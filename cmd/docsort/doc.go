// Command docsort is the CLI for the docsort daemon: run it in the
// foreground, inspect its status over the control socket, and review the
// move history.
package main
