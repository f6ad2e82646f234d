package enum

import "encoding/json"

// ItemType distinguishes regular products from discount/promotion entries
// on a ticket.
type ItemType string

const (
	ItemTypeItem ItemType = "item"
	ItemTypeGift ItemType = "gift"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeItem || t == ItemTypeGift
}

func (t ItemType) String() string {
	return string(t)
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = ItemType(str)
	return nil
}
