package filterable

type simpleObject struct {
	ID           string
	Name         string `filter:"name"`
	Number       int64  `filter:"number"`
	IgnoredField int
}

type deepObject struct {
	ID           string            `filter:"id,omitempty"`
	Name         string            `filter:"name,omitempty"`
	Number       float64           `filter:"number,omitempty"`
	Setting      map[string]string `filter:"setting"`
	IgnoredField string
}

type composedObject struct {
	ID           string
	Name         string         `filter:"name"`
	Number       *int64         `filter:"number"`
	Attributes   []string       `filter:"attributes"`
	Objects      map[string]any `filter:"objects"`
	DeepObject   *deepObject    `filter:"deepObject,deep"`
	IgnoredField int
}

type simpleComposedObject struct {
	ID           string
	DeepObject   *deepObject `filter:"deepObject,grab=id"`
	IgnoredField int
}

type deepComposedObject struct {
	ID         string
	DeepObject *deepObject `filter:"deepObject,deep"`
}

type untaggedObject struct {
	ID    string
	Name  string
	Count int
}

type node struct {
	Name string `filter:"name"`
	Next *node  `filter:"next,deep"`
}

type Base struct {
	Tenant string `filter:"tenant"`
}

type promotedObject struct {
	Base
	Code string `filter:"code"`
}

type taggedEmbedObject struct {
	Base `filter:",deep"`
	Code string `filter:"code"`
}

type privateObject struct {
	Public string `filter:"public"`
	secret string `filter:"secret"`
	inner  *deepObject `filter:"inner,deep"`
}

type privateGrabObject struct {
	Holder *privateHolder `filter:"holder,grab=token"`
}

type privateHolder struct {
	token string
}

type interfaceGrabObject struct {
	Thing any `filter:"thing,grab=ID"`
}

type missingGrabObject struct {
	DeepObject *deepObject `filter:"deepObject,grab=missing"`
	Name       string      `filter:"name"`
}

type sharedRefObject struct {
	Left  *deepObject `filter:"left,deep"`
	Right *deepObject `filter:"right,deep"`
}

type deepAndGrabObject struct {
	DeepObject *deepObject `filter:"deepObject,deep,grab=id"`
}

type mapDeepObject struct {
	Settings map[string]string `filter:"settings,deep"`
}

type valueDeepObject struct {
	Nested deepObject `filter:"nested,deep"`
}

type omitObject struct {
	Count   int      `filter:"count,omitempty"`
	Label   string   `filter:"label,omitempty"`
	Tags    []string `filter:"tags,omitempty"`
	Zero    int      `filter:"zero"`
	Skipped string   `filter:"-"`
}

type namedEntity struct {
	Code string `filter:"code"`
}

func (namedEntity) FilterType() string { return "catalog.item" }

type box[T any] struct {
	Value T `filter:"value"`
}
