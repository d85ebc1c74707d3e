package contamination

type RecordRow struct {
	ID                 int64  `bun:"id"`
	BatchID            int64  `bun:"batch_id"`
	BatchName          string `bun:"batch_name"`
	NumLost            int64  `bun:"num_lost"`
	NumAffected        int64  `bun:"num_affected"`
	ContaminationType  string `bun:"contamination_type"`
	IdentificationDate string `bun:"identification_date"`
	Notes              string `bun:"notes"`
}

type BatchOption struct {
	ID        int64
	Label     string
	Remaining int64
}

type PageData struct {
	Message     string
	BatchFilter int64
	Batches     []BatchOption
	Rows        []RecordRow
}
