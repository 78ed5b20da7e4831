// internal/bank/identity.go

package bank

import (
	"encoding/json"
	"regexp"
	"unicode"
)

// contactPattern：local-part、@、至少一個以點分隔的網域標籤。
var contactPattern = regexp.MustCompile(`^[A-Za-z0-9_.+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+$`)

// Identity 代表帳戶持有人。建立時驗證一次，之後不可變。
type Identity struct {
	name    string
	contact string
}

// NewIdentity 驗證名稱（僅字母）與聯絡信箱格式後建立 Identity。
func NewIdentity(name, contact string) (Identity, error) {
	if !ValidName(name) {
		return Identity{}, fail("identity.create", ErrInvalidName, "name="+name)
	}
	if !ValidContact(contact) {
		return Identity{}, fail("identity.create", ErrInvalidContact, "contact="+contact)
	}
	return Identity{name: name, contact: contact}, nil
}

func (i Identity) Name() string    { return i.name }
func (i Identity) Contact() string { return i.contact }

// ValidName 回報名稱是否非空且全為字母。
// 互動選單亦用此函式做輸入預檢。
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ValidContact 回報字串是否符合信箱語法。
func ValidContact(contact string) bool {
	return contactPattern.MatchString(contact)
}

// MarshalJSON 讓含有 Identity 的快照可直接作為 API 回應。
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
	}{i.name, i.contact})
}
