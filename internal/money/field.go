package money

// Field keeps an amount together with its formatted projection, tracking
// user keystrokes for an input box. It is not safe for concurrent use;
// one field belongs to one input.
type Field struct {
	initial    int64
	initialSet bool
	value      int64
	set        bool
	formatted  string
}

// NewField returns an empty field.
func NewField() *Field {
	return &Field{}
}

// NewFieldWith returns a field whose initial and current value is v.
// Reset restores it.
func NewFieldWith(v int64) *Field {
	f := &Field{initial: v, initialSet: true}
	f.Set(v)
	return f
}

// Update re-derives value and formatted text from raw user input.
// Input without digits clears the field.
func (f *Field) Update(raw string) {
	v, ok := Parse(raw)
	if !ok {
		f.clear()
		return
	}
	f.Set(v)
}

// Set assigns an explicit value.
func (f *Field) Set(v int64) {
	f.value = v
	f.set = true
	f.formatted = Format(v)
}

// Reset restores the initial value supplied at construction.
func (f *Field) Reset() {
	if !f.initialSet {
		f.clear()
		return
	}
	f.Set(f.initial)
}

// Value returns the current amount; ok is false when the field is empty.
func (f *Field) Value() (int64, bool) {
	return f.value, f.set
}

// Formatted returns the display projection, empty for an empty field.
func (f *Field) Formatted() string {
	return f.formatted
}

func (f *Field) clear() {
	f.value = 0
	f.set = false
	f.formatted = ""
}
