// Package envelope builds and parses the JSON frames exchanged with a room.
//
// Every frame is a single-line JSON object tagged by "type". Outbound
// message and file envelopes are sealed here when the session is in E2E mode;
// opening them on receipt is left to the session, which knows whether a key
// is available.
//
// Wire shapes (client -> server):
//
//	{"type":"message","text":"...","ts":"...","encrypted":0|1,"messageId":"..."}
//	{"type":"file","filename":"...","data":"data:...","ts":"...","encrypted":0|1,"messageId":"..."}
//	{"type":"typing"}
//	{"type":"seen","messageId":"..."}
//
// The server adds "name" to message, file and typing, "by" to seen, and also
// sends users, presence and error frames.
package envelope
