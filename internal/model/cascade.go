package model

// Cascade policies applied when an owning entity is deleted.
const (
	CascadeDelete  = "cascade" // child rows are removed with the owner
	CascadeNullify = "nullify" // child keeps its row, the owner reference is cleared
)

// Entity kinds used in the cascade table.
const (
	KindItem      = "item"
	KindItemPhoto = "item_photo"
	KindReceipt   = "receipt"
	KindItemTag   = "item_tag"
)

// Relation declares the delete policy between an owner and a dependent kind.
type Relation struct {
	Owner  string
	Child  string
	Policy string
}

// CascadeRules is the full ownership/cascade table. The store must behave
// exactly as declared here; the table exists so the policy can be inspected
// and tested independently of the storage engine.
var CascadeRules = []Relation{
	{Owner: KindItem, Child: KindItemPhoto, Policy: CascadeDelete},
	{Owner: KindItem, Child: KindReceipt, Policy: CascadeNullify},
	{Owner: KindItem, Child: KindItemTag, Policy: CascadeDelete},
}

// PolicyFor returns the declared policy between an owner and child kind.
func PolicyFor(owner, child string) (string, bool) {
	for _, r := range CascadeRules {
		if r.Owner == owner && r.Child == child {
			return r.Policy, true
		}
	}
	return "", false
}
