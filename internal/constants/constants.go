package constants

// 用户类型常量
const (
	UserTypeShop  = "shop"
	UserTypeBuyer = "buyer"
)

// 订单状态常量
const (
	OrderStatusOpen = "open"
)

// MaxLineQuantity 单个订单项允许的最大数量，与 order_items 的 CHECK 约束一致
const MaxLineQuantity = 2147483647

// 同步任务状态常量
const (
	SyncRunStatusRunning   = "running"
	SyncRunStatusSucceeded = "succeeded"
	SyncRunStatusFailed    = "failed"
)

// 同步触发来源常量
const (
	SyncTriggerCreated   = "created"
	SyncTriggerUpdated   = "updated"
	SyncTriggerManual    = "manual"
	SyncTriggerScheduled = "scheduled"
	SyncTriggerCLI       = "cli"
)

// 同步诊断类型常量
const (
	DiagnosticMissingCategory = "missing_category"
)

// 队列与任务常量
const (
	QueueDefault    = "default"
	TaskCatalogSync = "catalog:sync"
)
