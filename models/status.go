package models

// TableStatus is the floor state of a physical table.
type TableStatus string

const (
	TableLibre     TableStatus = "LIBRE"
	TableReservada TableStatus = "RESERVADA"
	TablePidiendo  TableStatus = "PIDIENDO"
	TableEsperando TableStatus = "ESPERANDO"
	TableOcupada   TableStatus = "OCUPADA"
	TablePagando   TableStatus = "PAGANDO"
)

var tableStatuses = []TableStatus{
	TableLibre, TableReservada, TablePidiendo, TableEsperando, TableOcupada, TablePagando,
}

func (s TableStatus) Valid() bool {
	for _, v := range tableStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// InService reports whether the status describes a table that is being served.
func (s TableStatus) InService() bool {
	switch s {
	case TablePidiendo, TableEsperando, TableOcupada, TablePagando:
		return true
	}
	return false
}

// OrderStatus follows the kitchen/bar progression of a single order.
type OrderStatus string

const (
	OrderPendiente  OrderStatus = "PENDIENTE"
	OrderPreparando OrderStatus = "PREPARANDO"
	OrderListo      OrderStatus = "LISTO"
	OrderEntregado  OrderStatus = "ENTREGADO"
)

var orderProgression = []OrderStatus{OrderPendiente, OrderPreparando, OrderListo, OrderEntregado}

// Step returns the position of the status in the progression, or -1 when unknown.
func (s OrderStatus) Step() int {
	for i, v := range orderProgression {
		if v == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool { return s.Step() >= 0 }

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationSeated    ReservationStatus = "SEATED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationNoShow    ReservationStatus = "NO_SHOW"
)

// ActiveReservationStatuses block the table's time slot.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationPending, ReservationConfirmed, ReservationSeated,
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationSeated, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationSeated || s == ReservationCancelled || s == ReservationNoShow
}

type PaymentMethod string

const (
	PaymentEfectivo      PaymentMethod = "EFECTIVO"
	PaymentTarjeta       PaymentMethod = "TARJETA"
	PaymentTransferencia PaymentMethod = "TRANSFERENCIA"
)

type SplitType string

const (
	SplitSingle SplitType = "SINGLE"
	SplitEqual  SplitType = "EQUAL"
	SplitByItem SplitType = "BY_ITEM"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleMozo     Role = "MOZO"
	RoleBarman   Role = "BARMAN"
	RoleCocinero Role = "COCINERO"
)

type ProductType string

const (
	ProductCocina ProductType = "COCINA"
	ProductBarra  ProductType = "BARRA"
)
