package orders

type OrderRow struct {
	ID               int64  `bun:"id"`
	ClientName       string `bun:"client_name"`
	Cultivar         string `bun:"cultivar"`
	NumPlants        int64  `bun:"num_plants"`
	PlantSize        string `bun:"plant_size"`
	OrderDate        string `bun:"order_date"`
	DeliveryQuantity int64  `bun:"delivery_quantity"`
	IsRecurring      bool   `bun:"is_recurring"`
	Completed        bool   `bun:"completed"`
	CompletionDate   string `bun:"completion_date"`
	Notes            string `bun:"notes"`
	BatchCount       int64  `bun:"batch_count"`
	Delivered        int64  `bun:"delivered"`
}

type ArchiveRow struct {
	ID             int64  `bun:"id"`
	ClientName     string `bun:"client_name"`
	Cultivar       string `bun:"cultivar"`
	NumPlants      int64  `bun:"num_plants"`
	OrderDate      string `bun:"order_date"`
	CompletionDate string `bun:"completion_date"`
	DaysToComplete int64  `bun:"days_to_complete"`
}

type ArchiveSummary struct {
	Count             int64
	AvgDaysToComplete float64
}

type PageData struct {
	Message      string
	ClientFilter string
	Clients      []string
	Rows         []OrderRow
}
