package auth

import (
	"fmt"
	"io"
	"strings"
)

// WriteSessionGuide explains where to find the sessionid cookie
func WriteSessionGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "📚 GETTING YOUR INSTAGRAM SESSION ID")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Open Instagram in your browser and log in")
	fmt.Fprintln(w, "  2. Open Developer Tools (F12)")
	fmt.Fprintln(w, "  3. Go to Application/Storage → Cookies → https://www.instagram.com")
	fmt.Fprintln(w, "  4. Find and copy the 'sessionid' value")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "💡 Copy the entire value, without quotes or semicolons.")
	fmt.Fprintln(w, "   It looks like 12345678%3Aabcdef... and expires over time.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "⚠️  The session ID gives full access to the account. Never share it;")
	fmt.Fprintln(w, "   instarecon keeps it in the system keychain or an encrypted file.")
	fmt.Fprintln(w)
}
