// Package tui implements the interactive terminal control surface for a DP564.
//
// Built on Bubble Tea with the usual Model-Update-View pattern: the model
// wraps one connected session, a textinput command prompt, and a short
// event log. A 250ms tick message measures the real elapsed time between
// ticks and feeds it to the session, which handles heartbeat emission and
// inbound frame dispatch. Since every session call happens inside Update,
// the session's single-goroutine rule holds under the Bubble Tea runtime.
//
// # Operator Commands
//
// The prompt accepts one command per line:
//   - volume <db>: set master volume in half-dB steps
//   - dim [on|off]: toggle or set the DIM (mute) state
//   - source <name>: select the input source
//   - status, help, quit
//
// Command parsing lives in ParseCommand so the plain non-TTY line loop in
// the CLI shares the exact same grammar.
//
// # Framework Components
//
//   - bubbles/textinput: the command prompt
//   - lipgloss: status panel and event log styling
package tui
