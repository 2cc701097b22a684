package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"state", topics.BridgeState("enocean", "789abcde"), "graylogic/state/enocean/789abcde"},
		{"command", topics.BridgeCommand("enocean", "051a2b3c"), "graylogic/command/enocean/051a2b3c"},
		{"command wildcard", topics.AllBridgeCommands("enocean"), "graylogic/command/enocean/+"},
		{"health", topics.BridgeHealth("enocean"), "graylogic/health/enocean"},
		{"discovery", topics.BridgeDiscovery("enocean"), "graylogic/discovery/enocean"},
		{"system status", topics.SystemStatus(), "graylogic/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCommandAddress(t *testing.T) {
	topics := Topics{}

	if got := topics.CommandAddress("enocean", "graylogic/command/enocean/051a2b3c"); got != "051a2b3c" {
		t.Errorf("CommandAddress = %q, want 051a2b3c", got)
	}
	if got := topics.CommandAddress("enocean", "graylogic/state/enocean/051a2b3c"); got != "" {
		t.Errorf("CommandAddress on state topic = %q, want empty", got)
	}
	if got := topics.CommandAddress("enocean", "graylogic/command/enocean/"); got != "" {
		t.Errorf("CommandAddress on bare prefix = %q, want empty", got)
	}
}
