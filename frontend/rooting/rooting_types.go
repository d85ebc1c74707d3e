package rooting

type RecordRow struct {
	ID            int64  `bun:"id"`
	TransferID    int64  `bun:"transfer_id"`
	BatchID       int64  `bun:"batch_id"`
	BatchName     string `bun:"batch_name"`
	NumPlaced     int64  `bun:"num_placed"`
	PlacementDate string `bun:"placement_date"`
	NumRooted     int64  `bun:"num_rooted"`
	Confirmed     bool   `bun:"confirmed"`
	RootingDate   string `bun:"rooting_date"`
	Notes         string `bun:"notes"`
}

type BatchOption struct {
	ID    int64
	Label string
}

type TransferOption struct {
	ID        int64
	Label     string
	Remaining int64
}

type PageData struct {
	Message     string
	BatchFilter int64
	Batches     []BatchOption
	Transfers   []TransferOption
	Rows        []RecordRow
}
