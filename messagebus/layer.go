package messagebus

// Layer is a stage in the fixed global order in which an event is processed.
type Layer int

const (
	// LayerEventStore records the event. It always completes before any other layer starts.
	LayerEventStore Layer = iota

	// LayerExecution updates read models and triggers side effects.
	LayerExecution

	// LayerContentBuild maintains and answers the content read models that build queries rely on.
	LayerContentBuild
)

func (l Layer) String() string {
	switch l {
	case LayerEventStore:
		return "event_store"
	case LayerExecution:
		return "execution"
	case LayerContentBuild:
		return "content_build"
	default:
		return "unknown"
	}
}

func (l Layer) valid() bool {
	return l >= LayerEventStore && l <= LayerContentBuild
}
