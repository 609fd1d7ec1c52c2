// Package report renders profile records and contact lookups as the plain
// text reconnaissance report. Every function is pure: missing fields fall
// back to defaults and nothing here can fail.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"instarecon/pkg/errors"
	"instarecon/pkg/instagram"
	"instarecon/pkg/phone"
)

const (
	width      = 60
	labelWidth = 23

	noUsersFound = "No users found"
)

var (
	heavyRule = strings.Repeat("=", width)
	lightRule = strings.Repeat("─", width)

	// continuation lines of the biography line up with field values
	bioIndent = strings.Repeat(" ", labelWidth)
)

type builder struct {
	strings.Builder
}

func (b *builder) line(format string, args ...interface{}) {
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}

func (b *builder) field(label string, value interface{}) {
	b.line("%-*s: %v", labelWidth, label, value)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// Render formats the profile section of the report
func Render(p instagram.Profile) string {
	var b builder

	b.line("")
	b.line("%s", heavyRule)
	b.line("INSTAGRAM RECONNAISSANCE RESULTS")
	b.line("%s", heavyRule)
	b.line("")

	b.field("Username", p.String("username"))
	b.field("User ID", p.String(instagram.UserIDField))
	b.field("Full Name", p.String("full_name"))

	b.field("Verified Account", mark(p.Bool("is_verified")))
	b.field("Business Account", mark(p.Bool("is_business")))
	b.field("Private Account", mark(p.Bool("is_private")))

	followers := p.Count("follower_count")
	following := p.Count("following_count")

	b.line("\nEngagement Metrics:")
	b.field("Followers", humanize.Comma(followers))
	b.field("Following", humanize.Comma(following))
	b.field("Posts", humanize.Comma(p.Count("media_count")))

	if followers > 0 {
		b.field("Following/Follower Ratio", fmt.Sprintf("%.2f", Ratio(following, followers)))
	}

	if p.Truthy("external_url") {
		b.line("\nExternal Links:")
		b.field("Website", p.String("external_url"))
	}

	if p.Has("total_igtv_videos") {
		b.field("IGTV Posts", p.String("total_igtv_videos"))
	}

	if p.Truthy("biography") {
		b.line("\nBiography:")
		for i, l := range strings.Split(p.String("biography"), "\n") {
			if strings.TrimSpace(l) == "" {
				continue
			}
			if i > 0 {
				l = bioIndent + l
			}
			b.line("%s", l)
		}
	}

	if flags := accountFlags(p); len(flags) > 0 {
		b.line("")
		b.field("Account Flags", strings.Join(flags, ", "))
	}

	renderPublicContact(&b, p)

	if pic := ProfilePictureURL(p); pic != "" {
		b.line("")
		b.field("Profile Picture", pic)
	}

	return b.String()
}

// Ratio is following per follower; callers guarantee followers > 0
func Ratio(following, followers int64) float64 {
	return float64(following) / float64(followers)
}

func accountFlags(p instagram.Profile) []string {
	var flags []string
	if p.Truthy("is_whatsapp_linked") {
		flags = append(flags, "WhatsApp Linked")
	}
	if p.Truthy("is_memorialized") {
		flags = append(flags, "Memorial Account")
	}
	if p.Truthy("is_new_to_instagram") {
		flags = append(flags, "New User")
	}
	return flags
}

func renderPublicContact(b *builder, p instagram.Profile) {
	email := p.Truthy("public_email")
	tel := p.Truthy("public_phone_number")
	if !email && !tel {
		return
	}

	b.line("\nPublic Contact Info:")
	if email {
		b.field("Email", p.String("public_email"))
	}
	if tel {
		code := ""
		if p.Has("public_phone_country_code") && p["public_phone_country_code"] != nil {
			code = p.String("public_phone_country_code")
		}
		b.field("Phone", phone.Format(code, p.String("public_phone_number")))
	}
}

// ProfilePictureURL picks the best available picture: the structured HD
// field, then the flat HD field, then the standard one. The first present
// field wins; "" means no usable URL.
func ProfilePictureURL(p instagram.Profile) string {
	var pic interface{}
	switch {
	case p.Map("hd_profile_pic_url_info").Truthy("url"):
		pic = p.Map("hd_profile_pic_url_info")["url"]
	case p.Has("profile_pic_url_hd"):
		pic = p["profile_pic_url_hd"]
	case p.Has("profile_pic_url"):
		pic = p["profile_pic_url"]
	}

	if s, ok := pic.(string); ok {
		return s
	}
	return ""
}

// RenderContact formats the advanced reconnaissance section. Lookup
// failures are shown inline; they never abort the report.
func RenderContact(res instagram.ContactLookupResult) string {
	var b builder

	b.line("")
	b.line("%s", lightRule)
	b.line("ADVANCED RECONNAISSANCE")
	b.line("%s", lightRule)

	if res.Err != nil {
		switch errors.TypeOf(res.Err) {
		case errors.ErrorTypeRateLimit:
			b.line("⚠️  Rate limit reached - please wait before trying again")
		case errors.ErrorTypeTimeout:
			b.line("⚠️  Request timeout - please try again later")
		default:
			b.line("⚠️  Lookup unavailable: %s", res.Err)
		}
		return b.String()
	}

	payload := res.Payload
	if len(payload) == 0 {
		return b.String()
	}

	if payload.Has("message") {
		if msg := payload.String("message"); msg == noUsersFound {
			b.line("No additional reconnaissance data available")
		} else {
			b.line("Status: %s", msg)
		}
		return b.String()
	}

	found := false
	if payload.Truthy("obfuscated_email") {
		b.field("Obfuscated Email", payload.String("obfuscated_email"))
		found = true
	}
	if payload.Truthy("obfuscated_phone") {
		b.field("Obfuscated Phone", payload.String("obfuscated_phone"))
		found = true
	}
	if !found {
		b.line("No obfuscated contact information found")
	}

	return b.String()
}

// Footer closes the report
func Footer() string {
	var b builder
	b.line("")
	b.line("%s", heavyRule)
	b.line("")
	b.line("🔒 Security Note: This information is publicly available")
	b.line("   Use responsibly and in accordance with applicable laws.")
	return b.String()
}
