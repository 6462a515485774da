package mqtt

import "fmt"

// Topic prefixes. The hierarchy is deliberately flat:
//
//	switchhook/state/{switch_id}   retained state mirror per switch
//	switchhook/system/status       service online/offline (retained, LWT)
const (
	// TopicPrefix is the base for all switchhook topics.
	TopicPrefix = "switchhook"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "switchhook/system"
)

// Topics provides builders for switchhook MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// SwitchState returns the retained state topic for one switch.
//
// Example: switchhook/state/lamp1
func (Topics) SwitchState(switchID string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, switchID)
}

// SystemStatus returns the service status topic.
//
// Example: switchhook/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
