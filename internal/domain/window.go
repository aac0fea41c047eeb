package domain

// WindowKind selects how a trade window is presented and which currency the
// client shows prices in.
type WindowKind int

const (
	WindowNormal WindowKind = iota
	WindowBountyPoints
	WindowCount
)

func (k WindowKind) String() string {
	switch k {
	case WindowNormal:
		return "normal"
	case WindowBountyPoints:
		return "bounty_points"
	case WindowCount:
		return "count"
	default:
		return "unknown"
	}
}

type ChatType string

const (
	ChatSystem   ChatType = "system"
	ChatMerchant ChatType = "merchant"
	ChatSay      ChatType = "say"
)

type ChatLocation string

const (
	ChatLocPopup        ChatLocation = "popup_window"
	ChatLocSystemWindow ChatLocation = "system_window"
)
