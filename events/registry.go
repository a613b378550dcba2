package events

var typeToName = map[EventType]string{
	EventEntityDestroyed:  "EntityDestroyed",
	EventComponentAdded:   "ComponentAdded",
	EventComponentRemoved: "ComponentRemoved",
}

var nameToType = func() map[string]EventType {
	m := make(map[string]EventType, len(typeToName))
	for t, n := range typeToName {
		m[n] = t
	}
	return m
}()

// GetEventName returns the string name for an EventType, for logs and tests
func GetEventName(et EventType) string {
	if n, ok := typeToName[et]; ok {
		return n
	}
	return "Unknown"
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	et, ok := nameToType[name]
	return et, ok
}
