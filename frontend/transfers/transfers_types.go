package transfers

type TransferLine struct {
	ID                     int64
	Depth                  int
	TransferDate           string
	ExplantsIn             int64
	ExplantsOut            int64
	Ratio                  string
	NewMedia               string
	MultiplicationOccurred bool
	ToRooting              bool
	Notes                  string
}

type BatchOption struct {
	ID    int64
	Label string
}

type ParentOption struct {
	ID    int64
	Label string
}

type PageData struct {
	Message     string
	BatchFilter int64
	Batches     []BatchOption
	Parents     []ParentOption
	Lines       []TransferLine
}
