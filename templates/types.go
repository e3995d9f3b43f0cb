package templates

// Option is one choice of a select or radio group.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// QuantityInput is the counter of one item in a section.
type QuantityInput struct {
	Name  string
	Label string
	Unit  string
	Qty   int
}

type SectionView struct {
	ID      string
	Label   string
	Waste   bool
	Packing bool
	Items   []QuantityInput
}

// MoveTypeView holds the item sections of a move type. Only the active one
// is shown; the others keep their counters as hidden inputs.
type MoveTypeView struct {
	ID       string
	Label    string
	Active   bool
	Sections []SectionView
}

type DateOption struct {
	Name    string
	Label   string
	Checked bool
}

type PhotoView struct {
	Name string
	URL  string
}

type LineView struct {
	Label  string
	Amount string
	Note   string
	Error  bool
}

// ResultsData is the calculated part of the form.
type ResultsData struct {
	Volume           string
	Weight           string
	Recommended      string
	RemainingPercent string
	Overflow         bool
	FinalVehicle     string
	Men              int
	Women            int
	Lines            []LineView
	Total            string
	Deposit          string
	Remaining        string
	Invalid          bool
	Summary          []string
	// BaseHelpers is the housewife count included in the priced vehicle's
	// base crew. The option to drop it is only offered when it is non-zero.
	BaseHelpers int
}

// QuoteFormData feeds the quotation form. Values holds the text of every
// record key; Checked the state of every boolean key.
type QuoteFormData struct {
	QuoteID        string
	QuoteName      string
	Values         map[string]string
	Checked        map[string]bool
	MoveTypes      []Option
	Sections       []MoveTypeView
	FromMethods    []Option
	ToMethods      []Option
	StorageTypes   []Option
	DistanceBands  []Option
	VehicleModes   []Option
	ManualVehicles []Option
	DateOptions    []DateOption
	Photos         []PhotoView
	PhotoNames     []string
	Results        ResultsData
}

// SearchRef is one search hit.
type SearchRef struct {
	ID   string
	Name string
}

type SearchData struct {
	Term    string
	Results []SearchRef
	Error   string
}
