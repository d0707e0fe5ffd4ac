// Package cmd wires the rester commands:
//
//   - send:     parse a request file and execute it
//   - validate: parse request files without sending
//   - bench:    send one request repeatedly and report latencies
//   - history:  list recorded requests
//   - init:     scaffold a config and example request
//   - version:  print build information
package cmd
