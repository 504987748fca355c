package blog

import "fmt"

// Result tells the boundary what happened to a write request
type Result int

const (
	// Applied means the change was made
	Applied Result = iota
	// Denied means the caller lacks rights and is sent to a read-only view
	Denied
	// NoOp means nothing had to change, e.g. the edge already exists
	NoOp
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Denied:
		return "denied"
	case NoOp:
		return "noop"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// ViewKind names a page the caller is sent to after a write
type ViewKind int

const (
	ViewPostDetail ViewKind = iota + 1
	ViewProfile
)

// View is a redirect target
type View struct {
	Kind     ViewKind
	PostID   int64
	Username string
}

// PostDetailView points at the detail page of a post
func PostDetailView(postID int64) View {
	return View{Kind: ViewPostDetail, PostID: postID}
}

// ProfileView points at the profile page of a user
func ProfileView(username string) View {
	return View{Kind: ViewProfile, Username: username}
}

// Outcome is the result of a write operation together with where to go next
type Outcome struct {
	Result   Result
	Redirect View
}

func applied(v View) Outcome { return Outcome{Result: Applied, Redirect: v} }
func denied(v View) Outcome  { return Outcome{Result: Denied, Redirect: v} }
func noop(v View) Outcome    { return Outcome{Result: NoOp, Redirect: v} }
