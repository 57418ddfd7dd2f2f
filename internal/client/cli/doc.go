// Package cli provides the recipebox command-line client.
//
// The root command loads the client configuration, overlays --server and
// --session, and builds an API client shared by the subcommands:
//
//	recipebox register | login | logout | verify
//	recipebox recipes list | get | search | create | update | delete
//
// Output is rendered as a table by default, or as JSON or YAML with
// --format. Credentials are read from the terminal without echo.
package cli
