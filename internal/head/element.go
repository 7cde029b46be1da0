package head

// Kind discriminates head elements.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindTitle
	KindMeta
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// KindForTag maps a tag name to its head element kind.
func KindForTag(tag string) Kind {
	switch tag {
	case "title":
		return KindTitle
	case "meta":
		return KindMeta
	default:
		return KindUnknown
	}
}

type Attr struct {
	Key   string
	Value string
}

// Attrs is an ordered attribute map. Iteration order is insertion order.
type Attrs []Attr

func (a Attrs) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place or appends a new pair.
func (a Attrs) Set(key, value string) Attrs {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attr{Key: key, Value: value})
}

func (a Attrs) Keys() []string {
	keys := make([]string, len(a))
	for i, attr := range a {
		keys[i] = attr.Key
	}
	return keys
}

func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	copy(out, a)
	return out
}

// Element is a <title> or <meta> declaration found while rendering.
type Element struct {
	Kind  Kind
	Text  string
	Attrs Attrs
}

func Title(text string) Element {
	return Element{Kind: KindTitle, Text: text}
}

func Meta(attrs ...Attr) Element {
	var a Attrs
	for _, attr := range attrs {
		a = a.Set(attr.Key, attr.Value)
	}
	return Element{Kind: KindMeta, Attrs: a}
}

// Pairs builds attributes from alternating keys and values. A trailing key
// without a value is dropped.
func Pairs(kv ...string) []Attr {
	attrs := make([]Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, Attr{Key: kv[i], Value: kv[i+1]})
	}
	return attrs
}
