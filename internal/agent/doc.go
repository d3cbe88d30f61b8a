// Package agent provides per-session chat agents for the TaskHub API.
//
// Each opaque session id maps to exactly one long-lived Session, constructed
// lazily by the Manager on first reference. A Session owns its conversation
// history and forwards user messages through a tool-calling loop against an
// external chat-completion model, which may invoke the registered task tools
// before producing user-visible content.
//
// # Session lifecycle
//
// A Session is constructed in one of two terminal states:
//
//   - Ready: a chat model provider was configured; ProcessMessage runs the
//     tool-calling loop and appends the resulting turns to the history.
//   - Uninitialized: required provider configuration was missing at startup;
//     ProcessMessage short-circuits with a fixed sentinel reply and never
//     makes an outbound call.
//
// There is no transition between the two states after construction.
//
// # Message processing
//
//	manager := agent.NewManager(prov, tools, agent.ManagerConfig{})
//	session := manager.GetOrCreate("browser-session-token")
//	reply := session.ProcessMessage(ctx, "create a task to buy milk")
//
// ProcessMessage never returns an error: the chat transport expects a plain
// text reply for every call, so model failures, tool failures, and timeouts
// are all converted to human-readable strings at this boundary. Structured
// errors are logged before conversion.
//
// # Retention
//
// The Manager retains sessions for the process lifetime by default. An
// optional capacity cap (least-recently-used eviction) and idle expiry can
// be enabled through ManagerConfig.
package agent
