package submit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jinohyoum/unimelb-room-booking-agent/internal/config"
	"github.com/jinohyoum/unimelb-room-booking-agent/internal/models"
)

// stepTimeout bounds each individual wait-for-element in the flow
const stepTimeout = 15 * time.Second

// DiBSSubmitter drives the UniMelb library booking site with a real
// browser. The flow mirrors the site's fixed wizard: landing page, DiBS
// link, Okta login, reservation template, date/time search, room pick,
// attendees, event details, create. Required steps fail the submission;
// cosmetic ones log and continue.
type DiBSSubmitter struct {
	cfg config.BrowserConfig
}

// NewDiBSSubmitter creates a submitter with the given browser configuration
func NewDiBSSubmitter(cfg config.BrowserConfig) *DiBSSubmitter {
	return &DiBSSubmitter{cfg: cfg}
}

// Submit runs the full reservation workflow for a finalized record
func (d *DiBSSubmitter) Submit(ctx context.Context, record models.BookingRecord) error {
	l := launcher.New().Headless(d.cfg.Headless)
	if d.cfg.UserDataDir != "" {
		// Persistent profile keeps the Okta session between runs
		l = l.UserDataDir(d.cfg.UserDataDir)
	}
	url, err := l.Launch()
	if err != nil {
		return &SubmissionError{Step: "launch browser", Err: err}
	}

	browser := rod.New().ControlURL(url).Context(ctx)
	if d.cfg.SlowMotion > 0 {
		browser = browser.SlowMotion(d.cfg.SlowMotion)
	}
	if err := browser.Connect(); err != nil {
		return &SubmissionError{Step: "connect browser", Err: err}
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: d.cfg.LandingURL})
	if err != nil {
		return &SubmissionError{Step: "open landing page", Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return &SubmissionError{Step: "load landing page", Err: err}
	}

	if err := d.openDiBS(page); err != nil {
		return err
	}
	if err := d.loginIfPrompted(page); err != nil {
		return err
	}
	if err := d.openReservationForm(page, record); err != nil {
		return err
	}
	if err := d.searchAndPickRoom(page, record); err != nil {
		return err
	}
	if err := d.fillEventAndCreate(page, record); err != nil {
		return err
	}

	log.Printf("Room booked: %s", record.Summary())
	return nil
}

// openDiBS follows the "Book a room - DiBS" link off the library site
func (d *DiBSSubmitter) openDiBS(page *rod.Page) error {
	link, err := page.Timeout(stepTimeout).ElementR("a", "/Book a room - DiBS/i")
	if err != nil {
		return &SubmissionError{Step: "find DiBS link", Err: err}
	}
	if err := link.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &SubmissionError{Step: "open DiBS", Err: err}
	}
	return page.WaitLoad()
}

// loginIfPrompted fills the Okta username/password form when it appears.
// An already-authenticated session skips straight through. The 2FA push
// has to be approved on the user's phone; the flow waits for it.
func (d *DiBSSubmitter) loginIfPrompted(page *rod.Page) error {
	username, err := page.Timeout(5 * time.Second).Element(`input[name="identifier"], input[autocomplete="username"]`)
	if err != nil {
		// No login prompt means the stored session is still valid
		return nil
	}
	if d.cfg.Username == "" {
		return &SubmissionError{Step: "login", Err: fmt.Errorf("login prompt shown but no credentials configured")}
	}

	if err := username.Input(d.cfg.Username); err != nil {
		return &SubmissionError{Step: "enter username", Err: err}
	}
	if next, err := page.Timeout(stepTimeout).ElementR("input, button", "/Next/i"); err == nil {
		_ = next.Click(proto.InputMouseButtonLeft, 1)
	}

	password, err := page.Timeout(stepTimeout).Element(`input[type="password"]`)
	if err != nil {
		return &SubmissionError{Step: "find password field", Err: err}
	}
	if err := password.Input(d.cfg.Password); err != nil {
		return &SubmissionError{Step: "enter password", Err: err}
	}
	if verify, err := page.Timeout(stepTimeout).ElementR("input, button", "/Verify/i"); err == nil {
		_ = verify.Click(proto.InputMouseButtonLeft, 1)
	}

	log.Println("Awaiting 2FA push approval on phone...")
	if push, err := page.Timeout(stepTimeout).Element(`div.authenticator-button[data-se="okta_verify-push"] a[data-se="button"]`); err == nil {
		if err := push.Click(proto.InputMouseButtonLeft, 1); err != nil {
			log.Printf("Could not select the Okta push option: %v", err)
		}
	}

	return page.Timeout(2 * time.Minute).WaitLoad()
}

// openReservationForm navigates to the reservation landing page, picks the
// space template, and fills the date and time filters
func (d *DiBSSubmitter) openReservationForm(page *rod.Page, record models.BookingRecord) error {
	// Footer link first, sidebar fallback; the markup differs between
	// first-time and returning sessions.
	if link, err := page.Timeout(5 * time.Second).Element(`a.link-footer[href*="RoomRequest.aspx"]`); err == nil {
		_ = link.Click(proto.InputMouseButtonLeft, 1)
	} else if link, err := page.Timeout(5 * time.Second).Element("a#sidebar-wrapper-home"); err == nil {
		_ = link.Click(proto.InputMouseButtonLeft, 1)
	} else {
		return &SubmissionError{Step: "open reservation landing", Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return &SubmissionError{Step: "load reservation landing", Err: err}
	}

	tile, err := page.Timeout(stepTimeout).ElementR("*", regexExact(record.Space))
	if err != nil {
		return &SubmissionError{Step: "find space tile", Err: err}
	}
	if err := tile.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &SubmissionError{Step: "select space tile", Err: err}
	}

	bookNow, err := page.Timeout(stepTimeout).Element(
		fmt.Sprintf(`button[aria-label*=%q]`, record.Space))
	if err != nil {
		return &SubmissionError{Step: "find book-now button", Err: err}
	}
	if err := bookNow.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &SubmissionError{Step: "book now", Err: err}
	}

	if err := d.fillField(page, "#booking-date input", record.Date); err != nil {
		return &SubmissionError{Step: "fill date", Err: err}
	}
	if err := d.fillField(page, `input[aria-label*="StartTime"]`, record.StartTime); err != nil {
		return &SubmissionError{Step: "fill start time", Err: err}
	}
	if err := d.fillField(page, `input[aria-label*="EndTime"]`, record.EndTime); err != nil {
		return &SubmissionError{Step: "fill end time", Err: err}
	}

	search, err := page.Timeout(stepTimeout).ElementR("button", "/Search/i")
	if err != nil {
		return &SubmissionError{Step: "find search button", Err: err}
	}
	if err := search.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &SubmissionError{Step: "search rooms", Err: err}
	}
	return nil
}

// searchAndPickRoom scans the result rows for one matching the preferred
// library and minimum capacity, falling back to the first row, then adds
// it to the cart with the attendee count set
func (d *DiBSSubmitter) searchAndPickRoom(page *rod.Page, record models.BookingRecord) error {
	rows, err := page.Timeout(stepTimeout).Elements(`tbody tr[data-recordtype="1"]`)
	if err != nil {
		return &SubmissionError{Step: "list room results", Err: err}
	}
	if len(rows) == 0 {
		return &SubmissionError{Step: "list room results", Err: errors.New("no rooms available")}
	}

	target := rows.First()
	preferred := strings.ToLower(strings.TrimSpace(record.PreferredLibrary))
	for _, row := range rows {
		building := ""
		if el, err := row.Element(`a[data-bind*="BuildingDescription"]`); err == nil {
			if text, err := el.Text(); err == nil {
				building = strings.TrimSpace(text)
			}
		}
		capacity := 0
		if el, err := row.Element(`td[data-bind="text: Capacity"]`); err == nil {
			if text, err := el.Text(); err == nil {
				capacity, _ = strconv.Atoi(strings.TrimSpace(text))
			}
		}

		libraryOK := preferred == "" || strings.ToLower(building) == preferred
		capacityOK := capacity >= record.MinCapacity
		if libraryOK && capacityOK {
			target = row
			break
		}
		// No match: the first result stays the fallback pick
	}

	addToCart, err := target.Element("td.action-button-column a.add-to-cart")
	if err != nil {
		return &SubmissionError{Step: "find add-to-cart", Err: err}
	}
	if err := addToCart.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &SubmissionError{Step: "add room to cart", Err: err}
	}

	// Attendee spinner is optional on some templates
	if spinner, err := page.Timeout(5 * time.Second).Element(`input[aria-label*="Number of Attendees"]`); err == nil {
		if err := clearAndType(spinner, strconv.Itoa(record.MinCapacity)); err != nil {
			log.Printf("Could not set Number of Attendees: %v", err)
		}
	}

	if addSpace, err := page.Timeout(stepTimeout).ElementR("button", "/Add Space/i"); err == nil {
		if err := addSpace.Click(proto.InputMouseButtonLeft, 1); err != nil {
			log.Printf("Could not click Add Space: %v", err)
		}
	}

	nextStep, err := page.Timeout(stepTimeout).ElementR("button", "/Next Step/i")
	if err != nil {
		return &SubmissionError{Step: "find next step", Err: err}
	}
	if err := nextStep.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &SubmissionError{Step: "next step", Err: err}
	}
	return nil
}

// fillEventAndCreate fills the event name, accepts the terms, and creates
// the reservation
func (d *DiBSSubmitter) fillEventAndCreate(page *rod.Page, record models.BookingRecord) error {
	event, err := page.Timeout(stepTimeout).Element(`input[aria-label*="Event Name"]`)
	if err != nil {
		return &SubmissionError{Step: "find event name field", Err: err}
	}
	if err := clearAndType(event, record.EventName); err != nil {
		return &SubmissionError{Step: "fill event name", Err: err}
	}

	if terms, err := page.Timeout(stepTimeout).ElementR("label", "/Terms and Conditions/i"); err == nil {
		if err := terms.Click(proto.InputMouseButtonLeft, 1); err != nil {
			log.Printf("Could not check Terms and Conditions: %v", err)
		}
	}

	create, err := page.Timeout(stepTimeout).ElementR("#details button", "/Create Reservation/i")
	if err != nil {
		return &SubmissionError{Step: "find create reservation", Err: err}
	}
	if err := create.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &SubmissionError{Step: "create reservation", Err: err}
	}
	return nil
}

// fillField clears an input and types the value, confirming with Enter
func (d *DiBSSubmitter) fillField(page *rod.Page, selector, value string) error {
	if value == "" {
		return nil
	}
	field, err := page.Timeout(stepTimeout).Element(selector)
	if err != nil {
		return err
	}
	if err := clearAndType(field, value); err != nil {
		return err
	}
	return field.Type(input.Enter)
}

// clearAndType replaces an input's current content with the value
func clearAndType(el *rod.Element, value string) error {
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

// regexExact builds a rod text regex that matches the label exactly
func regexExact(label string) string {
	escaped := strings.NewReplacer(
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `.`, `\.`, `*`, `\*`, `+`, `\+`, `?`, `\?`,
	).Replace(label)
	return "/^" + escaped + "$/"
}
