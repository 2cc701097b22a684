package mqtt

import "fmt"

// Topic prefixes per the Gray Logic MQTT scheme. All bridge topics use the
// flat layout: graylogic/{category}/{protocol}/{address}. For this bridge
// the protocol segment is "enocean" and the address is the lowercase hex
// sender ID, e.g. "789abcde".
const (
	prefixState     = "graylogic/state"
	prefixCommand   = "graylogic/command"
	prefixHealth    = "graylogic/health"
	prefixDiscovery = "graylogic/discovery"

	systemStatusTopic = "graylogic/system/status"
)

// Topics provides builders for Gray Logic MQTT topics. Using these helpers
// keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.BridgeState("enocean", "789abcde")
//	// Returns: "graylogic/state/enocean/789abcde"
type Topics struct{}

// BridgeState returns the topic for device state updates from a bridge.
//
// Example: graylogic/state/enocean/789abcde
func (Topics) BridgeState(protocol, address string) string {
	return fmt.Sprintf("%s/%s/%s", prefixState, protocol, address)
}

// BridgeCommand returns the topic for commands to a bridge.
//
// Example: graylogic/command/enocean/051a2b3c
func (Topics) BridgeCommand(protocol, address string) string {
	return fmt.Sprintf("%s/%s/%s", prefixCommand, protocol, address)
}

// AllBridgeCommands returns the wildcard subscription pattern covering all
// command topics for one bridge.
//
// Example: graylogic/command/enocean/+
func (Topics) AllBridgeCommands(protocol string) string {
	return fmt.Sprintf("%s/%s/+", prefixCommand, protocol)
}

// BridgeHealth returns the topic for bridge health status.
//
// Example: graylogic/health/enocean
func (Topics) BridgeHealth(protocol string) string {
	return fmt.Sprintf("%s/%s", prefixHealth, protocol)
}

// BridgeDiscovery returns the topic for unknown-device records from a
// bridge. Not retained; discovery is a stream, not state.
//
// Example: graylogic/discovery/enocean
func (Topics) BridgeDiscovery(protocol string) string {
	return fmt.Sprintf("%s/%s", prefixDiscovery, protocol)
}

// SystemStatus returns the shared online/offline status topic used for the
// LWT and graceful shutdown messages.
func (Topics) SystemStatus() string {
	return systemStatusTopic
}

// CommandAddress extracts the device address segment from a command topic,
// "" when the topic does not match the command scheme.
func (Topics) CommandAddress(protocol, topic string) string {
	prefix := fmt.Sprintf("%s/%s/", prefixCommand, protocol)
	if len(topic) <= len(prefix) || topic[:len(prefix)] != prefix {
		return ""
	}
	return topic[len(prefix):]
}
