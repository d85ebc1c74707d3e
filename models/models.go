package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DateLayout is the calendar-date format used by every date column.
// Dates carry no time-of-day semantics.
const DateLayout = "2006-01-02"

// Order is a client request for propagated plants.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID               int64     `bun:"id,pk,autoincrement"`
	ClientName       string    `bun:"client_name,notnull"`
	Cultivar         string    `bun:"cultivar,notnull"`
	NumPlants        int64     `bun:"num_plants,notnull"`
	PlantSize        string    `bun:"plant_size,notnull"`
	OrderDate        string    `bun:"order_date,notnull"`
	DeliveryQuantity int64     `bun:"delivery_quantity,notnull,default:0"`
	IsRecurring      bool      `bun:"is_recurring,notnull,default:false"`
	Completed        bool      `bun:"completed,notnull,default:false"`
	CompletionDate   *string   `bun:"completion_date"`
	Notes            string    `bun:"notes"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Batch is a cohort of explants initiated together. The order link is
// optional and may dangle after an order is deleted; read paths render
// a dangling link as unlinked.
type Batch struct {
	bun.BaseModel `bun:"table:explant_batches,alias:b"`

	ID                 int64     `bun:"id,pk,autoincrement"`
	OrderID            *int64    `bun:"order_id"`
	Name               string    `bun:"batch_name,notnull"`
	NumExplants        int64     `bun:"num_explants,notnull"`
	ExplantType        string    `bun:"explant_type,notnull"`
	MediaType          string    `bun:"media_type,notnull"`
	Hormones           *string   `bun:"hormones"`
	AdditionalElements *string   `bun:"additional_elements"`
	InitiationDate     string    `bun:"initiation_date,notnull"`
	PathogenStatus     *string   `bun:"pathogen_status"`
	Notes              string    `bun:"notes"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ContaminationRecord reduces or flags part of a batch population.
//
// NumInfected is the legacy aggregate (lost + affected) kept for rows
// written before the split. NumLost and NumAffected are the modern
// fields; reads go through lineage.NormalizeContamination so the
// legacy fallback lives at the store boundary only.
type ContaminationRecord struct {
	bun.BaseModel `bun:"table:contamination_records,alias:cr"`

	ID                 int64     `bun:"id,pk,autoincrement"`
	BatchID            int64     `bun:"batch_id,notnull"`
	NumInfected        int64     `bun:"num_infected,notnull"`
	NumLost            *int64    `bun:"num_lost"`
	NumAffected        *int64    `bun:"num_affected"`
	ContaminationType  string    `bun:"contamination_type,notnull"`
	IdentificationDate string    `bun:"identification_date,notnull"`
	Notes              string    `bun:"notes"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// TransferRecord moves explants onto fresh media. ParentTransferID
// forms a forest per batch; nil means the transfer descends directly
// from initiation.
type TransferRecord struct {
	bun.BaseModel `bun:"table:transfer_records,alias:tr"`

	ID                     int64     `bun:"id,pk,autoincrement"`
	BatchID                int64     `bun:"batch_id,notnull"`
	ParentTransferID       *int64    `bun:"parent_transfer_id"`
	TransferDate           string    `bun:"transfer_date,notnull"`
	ExplantsIn             int64     `bun:"explants_in,notnull"`
	ExplantsOut            int64     `bun:"explants_out,notnull"`
	NewMedia               string    `bun:"new_media,notnull"`
	Hormones               *string   `bun:"hormones"`
	AdditionalElements     *string   `bun:"additional_elements"`
	MultiplicationOccurred bool      `bun:"multiplication_occurred,notnull,default:false"`
	Notes                  string    `bun:"notes"`
	CreatedAt              time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// RootingRecord places explants on rooting media. NumRooted and
// RootingDate stay nil until rooting is confirmed.
type RootingRecord struct {
	bun.BaseModel `bun:"table:rooting_records,alias:rr"`

	ID            int64     `bun:"id,pk,autoincrement"`
	TransferID    *int64    `bun:"transfer_id"`
	BatchID       int64     `bun:"batch_id,notnull"`
	NumPlaced     int64     `bun:"num_placed,notnull"`
	PlacementDate string    `bun:"placement_date,notnull"`
	NumRooted     *int64    `bun:"num_rooted"`
	RootingDate   *string   `bun:"rooting_date"`
	Notes         string    `bun:"notes"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// DeliveryRecord records plants handed to a client. The order and
// batch links are independently optional.
type DeliveryRecord struct {
	bun.BaseModel `bun:"table:delivery_records,alias:dr"`

	ID             int64     `bun:"id,pk,autoincrement"`
	OrderID        *int64    `bun:"order_id"`
	BatchID        *int64    `bun:"batch_id"`
	NumDelivered   int64     `bun:"num_delivered,notnull"`
	DeliveryDate   string    `bun:"delivery_date,notnull"`
	DeliveryMethod string    `bun:"delivery_method"`
	Notes          string    `bun:"notes"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// LabelBatch snapshots order data at label-generation time. Rows are
// immutable after creation except for deletion; Token is the external
// lookup key and the payload carried by 1D barcodes.
type LabelBatch struct {
	bun.BaseModel `bun:"table:label_batches,alias:lb"`

	ID             int64     `bun:"id,pk,autoincrement"`
	OrderID        int64     `bun:"order_id,notnull"`
	Token          string    `bun:"label_uuid,unique,notnull"`
	ClientName     string    `bun:"client_name,notnull"`
	Cultivar       string    `bun:"cultivar,notnull"`
	OrderDate      string    `bun:"order_date,notnull"`
	InitiationDate string    `bun:"initiation_date,notnull"`
	Stages         string    `bun:"stages,notnull"`
	PathogenStatus *string   `bun:"pathogen_status"`
	NumExplants    *int64    `bun:"num_explants"`
	NumLabels      int64     `bun:"num_labels,notnull,default:1"`
	Notes          string    `bun:"notes"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for record mutations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
