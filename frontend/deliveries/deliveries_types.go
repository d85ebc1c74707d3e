package deliveries

type DeliveryRow struct {
	ID             int64  `bun:"id"`
	OrderID        int64  `bun:"order_id"`
	OrderLabel     string `bun:"order_label"`
	BatchID        int64  `bun:"batch_id"`
	BatchName      string `bun:"batch_name"`
	NumDelivered   int64  `bun:"num_delivered"`
	DeliveryDate   string `bun:"delivery_date"`
	DeliveryMethod string `bun:"delivery_method"`
	Notes          string `bun:"notes"`
}

type OrderOption struct {
	ID        int64
	Label     string
	Ordered   int64
	Delivered int64
}

type BatchOption struct {
	ID    int64
	Label string
}

type PageData struct {
	Message string
	Orders  []OrderOption
	Batches []BatchOption
	Rows    []DeliveryRow
}
