package extensions

import (
	"maps"
	"slices"

	"github.com/samber/lo"

	"github.com/AntonStoeckl/content-eventbus-go/messages"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell"
)

// DecideEditContentExtension decides whether the data of an extension changes.
//
// Business Rules:
//
//	GIVEN: The current data of the extension, if any, on content the acting user may edit
//	WHEN: EditContentExtension command is received
//	THEN: ContentExtensionEdited event is generated
//	IDEMPOTENCY: If the data serializes to the same JSON as the current data, no event is generated
func DecideEditContentExtension(
	current *core.Extension,
	cmd *core.EditContentExtension,
	base messages.BaseEvent,
) ([]messages.Event, error) {

	if current != nil {
		same, err := sameData(current.Data, cmd.Data)
		if err != nil {
			return nil, err
		}

		if same {
			return nil, nil
		}
	}

	return []messages.Event{core.BuildContentExtensionEdited(base, cmd.Extension, cmd.Data)}, nil
}

// DecideAddExtensionListItems decides whether a string list inside an extension grows.
//
// Business Rules:
//
//	GIVEN: The current data of the extension, if any, on content the acting user may edit
//	WHEN: AddExtensionListItems command is received
//	THEN: ContentExtensionEdited event is generated with the new items appended to the list under the key
//	IDEMPOTENCY: If every item is already in the list, no event is generated
func DecideAddExtensionListItems(
	current *core.Extension,
	cmd *core.AddExtensionListItems,
	base messages.BaseEvent,
) []messages.Event {

	data := map[string]any{}
	if current != nil {
		data = maps.Clone(dataOrEmpty(current.Data))
	}

	existing := StringList(data[cmd.Key])
	added := lo.Filter(lo.Uniq(cmd.Items), func(item string, _ int) bool { return !slices.Contains(existing, item) })

	if len(added) == 0 {
		return nil
	}

	data[cmd.Key] = append(existing, added...)

	return []messages.Event{core.BuildContentExtensionEdited(base, cmd.Extension, data)}
}

// StringList reads a list of strings out of decoded extension data. Anything else gives an empty list.
func StringList(value any) []string {
	switch items := value.(type) {
	case []string:
		return slices.Clone(items)
	case []any:
		return lo.FilterMap(items, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
	default:
		return []string{}
	}
}

// sameData compares by JSON encoding: decoded numbers are float64, so the maps cannot be compared directly.
func sameData(a, b map[string]any) (bool, error) {
	encodedA, err := shell.EncodeJSONColumn(dataOrEmpty(a))
	if err != nil {
		return false, err
	}

	encodedB, err := shell.EncodeJSONColumn(dataOrEmpty(b))
	if err != nil {
		return false, err
	}

	return encodedA == encodedB, nil
}
