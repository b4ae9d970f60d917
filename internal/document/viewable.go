package document

import "reflect"

// Kind tags a Viewable variant.
type Kind string

const (
	KindDocument Kind = "document"
	KindInbox    Kind = "inbox"
)

// Viewable is anything the viewer can display: a Document or an InboxItem.
// Every record has a title; Body reports the content capability.
type Viewable interface {
	Kind() Kind
	RecordID() string
	RecordTitle() string
	Body() (markup string, ok bool)
}

var (
	_ Viewable = Document{}
	_ Viewable = InboxItem{}
)

func jsonFieldName(field reflect.StructField) string {
	name := field.Tag.Get("json")
	for i := 0; i < len(name); i++ {
		if name[i] == ',' {
			name = name[:i]
			break
		}
	}
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
