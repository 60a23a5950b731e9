package models

// Record types as exported by the bookkeeping app; both the Chinese and the
// English spellings occur depending on the app locale.
const (
	TypeTransfer     = "轉帳"
	TypeTransferEN   = "Transfer"
	TypeReceivable   = "應收款項"
	TypeReceivableEN = "Receivable"
	TypeRefund       = "退款"
	TypeRefundEN     = "Refund"
	TypeIncome       = "收入"
	TypeIncomeEN     = "Income"
	TypePayable      = "應付款項"
	TypeExpenseEN    = "Expense"
)

// DefaultBaseCurrency is the reporting currency when none is configured.
const DefaultBaseCurrency = "TWD"

// Category markers.
const (
	CategoryTransfer      = "轉帳"
	CategoryCreditCard    = "信用卡"
	SubCategoryExchange   = "兌換"
	CategoryGlobalTravel  = "GlobalTravel"
	CategoryHouse         = "House"
	DefaultIncomeSubLabel = "Other"
)

// ManualAction is a user override recorded against a persisted transaction.
type ManualAction string

const (
	ActionNone         ManualAction = ""
	ActionClose        ManualAction = "結案"
	ActionIgnore       ManualAction = "無視"
	ActionTreatExpense ManualAction = "當作支出"
	ActionExclude      ManualAction = "排除"
)

// Helper columns written next to every persisted transaction.
const (
	ActionOptionsText     = "結案 / 無視 / 當作支出 / 排除"
	ActionDescriptionText = "結案:確認盈虧 | 無視:不處理 | 支出:強制計費 | 排除:剔除此筆"
)

// Canonical field names of the exported source CSV.
const (
	SourceDate         = "日期"
	SourceTime         = "時間"
	SourceName         = "名稱"
	SourceAmount       = "金額"
	SourceCurrency     = "幣種"
	SourceCategory     = "主類別"
	SourceSubCategory  = "子類別"
	SourceBalance      = "餘額"
	SourceAccount      = "帳戶"
	SourceType         = "記錄類型"
	SourceFee          = "手續費"
	SourceDiscount     = "折扣"
	SourceMerchant     = "商家"
	SourceProject      = "專案"
	SourceDescription  = "描述"
	SourceTag          = "標籤"
	SourceCounterparty = "對象"
)

// Fixed status texts written to MOZE_Match_Status.
const (
	StatusWaitingRules     = "Waiting_Rules"
	StatusTechFeeIncome    = "Tech Fee (Income)"
	StatusTechFeeIgnored   = "Tech Fee (Amortized) - Ignored"
	StatusTransferIgnored  = "Transfer - Ignored"
	StatusReceivableCheck  = "Receivable: Check Status (Actions: 結案, 無視, 當作支出)"
	StatusNettedExpense    = "Netted: Manual Expense"
	StatusNettedIgnored    = "Netted: Ignored"
	StatusNettedProfit     = "Netted: Profit"
	StatusNettedClosedLoss = "Netted: Closed (Loss)"
)

// Fixed identifiers of synthetic ledger entries.
const (
	SyntheticManualExpenseID = "R_MANUAL_EXP"
	SyntheticProfitID        = "R_REC_PROFIT"
	SyntheticLossID          = "R_REC_LOSS"
	UnknownCounterparty      = "Unknown"
	TechFeeIncomeName        = "Technician Fee Income"
)

// File permissions
const (
	PermissionDataFile  = 0o600
	PermissionDirectory = 0o750
)
