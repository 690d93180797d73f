package telegram

// UI texts in English
const (
	startText = "👋 I track field boss respawns.\n\n" +
		"• /track <boss> HH:MM — record a kill time\n" +
		"• /untrack <boss> — stop tracking a boss\n" +
		"• /bosses — show tracked respawns\n\n" +
		"Shorthand: \".<boss> HH:MM\" works like /track.\n\n" +
		"Known bosses:\n%s"
	listTitle = "📋 Tracked respawns:"
	listEmpty = "📭 No respawns tracked. Register one with /track <boss> HH:MM."

	trackedFmt   = "✅ %s registered!\n🕒 killed %s → 💀 next spawn %s (%dh cycle)"
	untrackedFmt = "🗑️ %s is no longer tracked."

	errUsageTrack   = "❌ Usage: /track <boss> HH:MM (e.g. /track Venatus 13:30)"
	errUsageUntrack = "❌ Usage: /untrack <boss>"
	errUnknownBoss  = "❌ Unknown boss name. Send /start for the list."
	errInvalidTime  = "❌ Invalid time. Expected HH:MM, e.g. 13:30."
	errNotTracked   = "📭 %s is not tracked."
	errInternal     = "Something went wrong. Please try again."
)
