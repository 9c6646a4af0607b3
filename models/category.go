package models

// Transaction classes form a fixed taxonomy; every category belongs to
// exactly one class.
const (
	ClassIncome        = "income"
	ClassDiscretionary = "discretionary"
	ClassBills         = "bills"
	ClassDebt          = "debt"
	ClassSavings       = "savings"
)

// Classes lists all valid transaction classes.
var Classes = []string{ClassIncome, ClassDiscretionary, ClassBills, ClassDebt, ClassSavings}

// ValidClass reports whether name is a known transaction class.
func ValidClass(name string) bool {
	for _, c := range Classes {
		if c == name {
			return true
		}
	}
	return false
}

// Category groups patterns under a transaction class.
type Category struct {
	ID    int    `json:"id"`
	Class string `json:"class"`
	Name  string `json:"name"`
	// Computed fields
	NumTransactions int `json:"num_transactions"`
}

// CategoryInput is used for creating/updating categories.
type CategoryInput struct {
	Class string `json:"class"`
	Name  string `json:"name"`
}

func (c *CategoryInput) Validate() string {
	if c.Name == "" {
		return "name is required"
	}
	if !ValidClass(c.Class) {
		return "class must be one of: income, discretionary, bills, debt, savings"
	}
	return ""
}
