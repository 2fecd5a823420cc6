// Package agent contains the model-centric tool-calling agent used by the
// supervisor and by every capability handler.
//
// A ModelAgent owns a model, an ordered Toolset and a list of instruction
// fragments. Invoke runs the classic loop: send the conversation, execute any
// requested tool calls, feed the results back, and stop once the model
// answers with plain text or the iteration cap is hit.
//
// Agents that keep history (the supervisor) remember completed exchanges
// across Invoke calls; handler agents are built per request and forget
// everything when the call returns.
package agent
