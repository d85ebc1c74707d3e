package labels

type LabelRow struct {
	ID             int64  `bun:"id"`
	OrderID        int64  `bun:"order_id"`
	Token          string `bun:"label_uuid"`
	ClientName     string `bun:"client_name"`
	Cultivar       string `bun:"cultivar"`
	OrderDate      string `bun:"order_date"`
	InitiationDate string `bun:"initiation_date"`
	Stages         string `bun:"stages"`
	PathogenStatus string `bun:"pathogen_status"`
	NumExplants    int64  `bun:"num_explants"`
	NumLabels      int64  `bun:"num_labels"`
	Notes          string `bun:"notes"`
	CreatedAt      string `bun:"created_at"`
}

type OrderOption struct {
	ID        int64
	Label     string
	Pathogens []string
}

// GenerateRequest carries everything the generation form collects. The
// snapshot fields are persisted; the layout fields only shape the PDF.
type GenerateRequest struct {
	OrderID        int64
	NumLabels      int64
	StartNumber    int64
	InitiationDate string
	NumExplants    int64
	Stages         []string
	CustomStage    string
	ExtraPathogens string
	IncludeDetected bool
	Notes          string
}

// PrintOptions controls sheet layout and per-field visibility. Zero
// value is not usable; call DefaultPrintOptions.
type PrintOptions struct {
	CodeType     string // CodeQR or CodeBarcode
	LabelWidth   float64 // inches
	LabelHeight  float64
	LabelsPerRow int
	StartNumber  int64

	IncludeCultivar  bool
	IncludeClient    bool
	IncludeOrderDate bool
	IncludeInitDate  bool
	IncludeStages    bool
	IncludeExplants  bool
	IncludePathogens bool
}

const (
	CodeQR      = "QR Code"
	CodeBarcode = "Barcode"
)

func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		CodeType:         CodeQR,
		LabelWidth:       2.0,
		LabelHeight:      1.0,
		LabelsPerRow:     3,
		StartNumber:      1,
		IncludeCultivar:  true,
		IncludeClient:    true,
		IncludeOrderDate: true,
		IncludeInitDate:  true,
		IncludeStages:    true,
		IncludeExplants:  true,
		IncludePathogens: true,
	}
}

type PageData struct {
	Message string
	Orders  []OrderOption
	Rows    []LabelRow
}
