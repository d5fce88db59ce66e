package models

// Status meja
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableDirty     = "dirty"
)

// Status order. Urutan dapur: queued -> preparing -> ready -> delivered.
const (
	OrderQueued    = "queued"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderFinalized = "finalized"
	OrderCancelled = "cancelled"
)

// Status produk di katalog
const (
	ProductActive = "Active"
	ProductPaused = "Paused"
)

// Sumber order
const (
	SourcePDV = "pdv"
	SourceQR  = "qr"
)

// Ledger
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"

	TransactionPending = "pending"
	TransactionPaid    = "paid"
)

// Role user
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleChef  = "chef"
)

// ClosedOrderStatuses adalah status yang tidak lagi dihitung ke tagihan meja.
var ClosedOrderStatuses = []string{OrderFinalized, OrderCancelled}

// IsOpenOrderStatus true jika order masih dihitung ke tagihan.
func IsOpenOrderStatus(status string) bool {
	return status != OrderFinalized && status != OrderCancelled
}
