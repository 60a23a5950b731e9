package models

// Persisted transaction columns, in write order.
const (
	ColID            = "ID"
	ColYearMonth     = "YearMonth"
	ColAccount       = "MOZE_Source_Account"
	ColCurrency      = "MOZE_Currency"
	ColType          = "MOZE_Type"
	ColCategory      = "MOZE_Category"
	ColSubCategory   = "MOZE_SubCategory"
	ColAmount        = "MOZE_Amount"
	ColFee           = "MOZE_Fee"
	ColDiscount      = "MOZE_Discount"
	ColName          = "MOZE_Name"
	ColMerchant      = "MOZE_Merchant"
	ColDate          = "MOZE_Date"
	ColTime          = "MOZE_Time"
	ColProject       = "MOZE_Project"
	ColDescription   = "MOZE_Description"
	ColTag           = "MOZE_Tag"
	ColCounterparty  = "MOZE_Who"
	ColMatchStatus   = "MOZE_Match_Status"
	ColManualAction  = "Manual_Action"
	ColActionOptions = "Action_Options"
	ColActionDesc    = "Action_Desc"
)

// TransactionColumns is the header of the transactions table.
var TransactionColumns = []string{
	ColID, ColYearMonth, ColAccount, ColCurrency, ColType, ColCategory, ColSubCategory,
	ColAmount, ColFee, ColDiscount, ColName, ColMerchant, ColDate, ColTime, ColProject,
	ColDescription, ColTag, ColCounterparty, ColMatchStatus, ColManualAction,
	ColActionOptions, ColActionDesc,
}

// Ledger columns.
const (
	ColLedgerMonth  = "YearMonth"
	ColLedgerItemID = "Recurring_Item_ID"
	ColLedgerName   = "Name_Category"
	ColLedgerAmount = "Actual_Amount"
	ColLedgerNote   = "Note"
)

// LedgerColumns is the header of the ledger table.
var LedgerColumns = []string{ColLedgerMonth, ColLedgerItemID, ColLedgerName, ColLedgerAmount, ColLedgerNote}

// Reference table columns. Several names are shared between tables.
const (
	ColRefID            = "ID"
	ColRefName          = "Name"
	ColRefType          = "Type"
	ColRefCategory      = "Category"
	ColRefCategoryName  = "Category_Name"
	ColRefAmountBase    = "Amount_Base"
	ColRefAmount        = "Amount"
	ColRefCurrency      = "Currency"
	ColRefFrequency     = "Frequency"
	ColRefSpecificMonth = "Specific_Month"
	ColRefPaymentDay    = "Payment_Day"
	ColRefStartDate     = "Start_Date"
	ColRefEndDate       = "End_Date"
	ColRefDate          = "Date"
	ColRefStatus        = "Status"
	ColRefNote          = "Note"
	ColRefQuantity      = "Quantity"
	ColRefLocation      = "Location"
	ColRefUnitPrice     = "Unit_Price"
)

// Insurance detail columns.
const (
	ColInsPaymentDate     = "Payment_Date"
	ColInsPremiumTotal    = "Premium_Total"
	ColInsActualYearEnd   = "Actual_YearEnd"
	ColInsExpectedYearEnd = "Expected_YearEnd"
	ColInsAccuSavings     = "Accu_Savings_Amount"
	ColInsCost            = "Insurance_Cost"
	ColInsYear            = "Year"
	ColInsEndDate         = "End_Date"
	ColInsCalcEXP         = "Calculation_EXP"
	ColInsCalcSAV         = "Calculation_SAV"
	ColInsCalcWIN         = "Calculation_WIN"
)

// AssetColumns is the header of the asset inventory. Extra columns found in
// the table are kept after these.
var AssetColumns = []string{
	ColRefID, ColRefType, ColRefCategory, ColRefName, ColRefQuantity,
	ColRefCurrency, ColRefLocation, ColRefNote, ColRefUnitPrice,
}

// Debt schedule columns.
const (
	ColDebtPaymentDate = "Payment_Date"
	ColDebtPrincipal   = "Principal_Amount"
	ColDebtInterest    = "Interest_Amount"
	ColDebtBalance     = "Remaining_Principal"
	ColDebtPayment     = "Payment_Amount"
	ColDebtTotal       = "Debt_Amount"
)

// Asset history columns.
const (
	ColHistDate      = "Date"
	ColHistAssetID   = "Asset_ID"
	ColHistName      = "Name"
	ColHistCategory  = "Category"
	ColHistType      = "Type"
	ColHistValue     = "Value"
	ColHistUnit      = "Unit"
	ColHistUnitPrice = "Unit_Price"
	ColHistLoggedAt  = "Logged_At"
)

// AssetHistoryColumns is the header of the asset history table.
var AssetHistoryColumns = []string{
	ColHistDate, ColHistAssetID, ColHistName, ColHistCategory, ColHistType,
	ColHistValue, ColHistUnit, ColHistUnitPrice, ColHistLoggedAt,
}
