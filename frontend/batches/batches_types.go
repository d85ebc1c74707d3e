package batches

type BatchRow struct {
	ID               int64  `bun:"id"`
	OrderID          int64  `bun:"order_id"`
	OrderLabel       string `bun:"order_label"`
	Name             string `bun:"batch_name"`
	NumExplants      int64  `bun:"num_explants"`
	ExplantType      string `bun:"explant_type"`
	MediaType        string `bun:"media_type"`
	InitiationDate   string `bun:"initiation_date"`
	PathogenStatus   string `bun:"pathogen_status"`
	TotalLost        int64  `bun:"total_lost"`
	HealthyRemaining int64  `bun:"healthy_remaining"`
	TransferCount    int64  `bun:"transfer_count"`
}

type PageData struct {
	Message      string
	ExplantType  string
	Rows         []BatchRow
	OrderOptions []OrderOption
}

type OrderOption struct {
	ID    int64
	Label string
}
