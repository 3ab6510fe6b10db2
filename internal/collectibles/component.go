package collectibles

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/safe-ui/safe_assets/internal/analytics"
	"github.com/safe-ui/safe_assets/internal/selectors"
	"github.com/safe-ui/safe_assets/internal/store"
)

// ErrUnknownItem is returned when a send targets a key that is not on the page.
var ErrUnknownItem = errors.New("collectible not found on page")

const trackTimeout = 5 * time.Second

// Component is the collectibles view of one viewer. It derives its page from
// store snapshots and owns the send workflow, which never enters the store.
type Component struct {
	tracker analytics.Tracker
	logger  *slog.Logger

	mountOnce   sync.Once
	unsubscribe func()

	mu       sync.Mutex
	memo     selectors.Memo
	send     SendState
	groups   []Group
	rendered store.Revisions
	hasPage  bool
	renders  int
}

// NewComponent builds an unmounted component.
func NewComponent(tracker analytics.Tracker, logger *slog.Logger) *Component {
	return &Component{tracker: tracker, logger: logger}
}

// Mount attaches the component to st: it renders the current snapshot,
// re-renders whenever collectible inputs change, and sends the page view
// event. Repeated calls are no-ops.
func (c *Component) Mount(st *store.Store) {
	c.mountOnce.Do(func() {
		analytics.Fire(c.tracker, analytics.Event{
			Category: analytics.SafeNavigationEvent,
			Action:   "Collectibles",
		}, trackTimeout, c.logger)

		unsubscribe := st.Subscribe(func(next store.State) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.refresh(next)
		})

		c.mu.Lock()
		c.unsubscribe = unsubscribe
		c.refresh(st.State())
		c.mu.Unlock()
	})
}

// Unmount detaches from the store and discards the send workflow.
func (c *Component) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.send = SendState{}
}

// Render returns the page for s. Groups are recomputed only when the
// collectible inputs differ from the last render.
func (c *Component) Render(s store.State) Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh(s)
	return c.page(s)
}

// Renders counts how many times the groups were recomputed.
func (c *Component) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

// SendState returns the current send workflow state.
func (c *Component) SendState() SendState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send
}

// Send stages token for sending and opens the modal.
func (c *Component) Send(token store.NFTToken) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage(token)
}

// SendKey stages the item with the given key on the page rendered from s.
func (c *Component) SendKey(s store.State, key string) error {
	slug, tokenID, ok := SplitItemKey(key)
	if !ok {
		return ErrUnknownItem
	}
	return c.SendItem(s, slug, tokenID)
}

// SendItem stages the token tokenID of the collection slug on the page
// rendered from s.
func (c *Component) SendItem(s store.State, slug, tokenID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh(s)
	for _, g := range c.groups {
		if g.Slug != slug {
			continue
		}
		for _, item := range g.Items {
			if item.Token.TokenID == tokenID {
				return c.stage(item.Token)
			}
		}
	}
	return ErrUnknownItem
}

// Close hides the modal. It reports whether the modal was open.
func (c *Component) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, changed := c.send.Close()
	c.send = next
	return changed
}

func (c *Component) stage(token store.NFTToken) error {
	next, err := c.send.Send(token)
	if err != nil {
		return err
	}
	c.send = next
	if c.logger != nil {
		c.logger.Debug("collectible staged for send",
			slog.String("asset_address", token.AssetAddress),
			slog.String("token_id", token.TokenID),
		)
	}
	return nil
}

func (c *Component) refresh(s store.State) {
	rev := selectors.Revision(s)
	if c.hasPage && rev == c.rendered {
		return
	}
	assets := c.memo.ActiveNFTAssets(s)
	if len(assets) == 0 {
		c.groups = nil
	} else {
		c.groups = BuildGroups(assets, c.memo.NFTTokens(s))
	}
	c.rendered = rev
	c.hasPage = true
	c.renders++
}

func (c *Component) page(s store.State) Page {
	modal := ModalProps{
		ActiveScreenType: SendCollectibleScreen,
		EthBalance:       selectors.EthBalance(s),
		IsOpen:           c.send.IsOpen(),
	}
	if token, ok := c.send.Selected(); ok {
		modal.SelectedToken = &token
	}

	if len(c.groups) == 0 {
		return Page{Placeholder: NoDataText, Groups: []Group{}, Modal: modal}
	}
	return Page{Groups: c.groups, Modal: modal}
}
