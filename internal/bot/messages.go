package bot

// TruncationMarker is appended to user text that was cut to the input limit
const TruncationMarker = " …"

// FallbackMessage is sent whenever no reply could be produced or delivered
const FallbackMessage = "⚠️ Da ist etwas schiefgelaufen. Versuch es gleich nochmal oder kürze den Text ein wenig."

// EmptyAnalyseMessage asks for text after a bare /analyse
const EmptyAnalyseMessage = "Bitte Text anfügen: `/analyse Dein Text`"

const StartMessage = "👋 Willkommen bei **HeartTalk**!\n\n" +
	"Schick mir einfach eine Chat-Nachricht oder nutze /analyse und füge den Text an.\n" +
	"Ich erkenne Ton & Subtext und gebe dir 3 Antwortstile: *locker*, *charmant*, *souverän*.\n\n" +
	"Beispiel: `Sie: Weiß nicht, ob ich heute kann.`"

const HelpMessage = "ℹ️ **HeartTalk Hilfe**\n" +
	"- Sende mir eine Nachricht aus deinem Chat\n" +
	"- oder nutze: `/analyse Dein Text hier`\n" +
	"- Daten: Es wird nichts dauerhaft gespeichert.\n"
