// Package i18n translates user-facing messages. Messages are keyed by their
// English text; other languages are registered in a golang.org/x/text catalog.
package i18n

// Message keys.
const (
	MsgNotFound           = "Record not found."
	MsgTypeNotSupported   = "This content type cannot be duplicated."
	MsgCannotDuplicate    = "You do not have permission to duplicate this record."
	MsgTargetMissing      = "Target content type does not exist."
	MsgCannotCreateTarget = "You do not have permission to create records of the target type."
	MsgTransformForbidden = "This transformation is not allowed."
	MsgSecurityCheck      = "Security check failed."
	MsgNoRecord           = "No record specified."
	MsgMissingParams      = "Missing required parameters."
	MsgDuplicationFailed  = "Failed to duplicate record."
	MsgErrorTitle         = "Duplication error"
	MsgBackToList         = "Back"
	MsgDuplicate          = "Duplicate"
	MsgDuplicateAs        = "Duplicate as %s"
	MsgDuplicateAria      = "Duplicate “%s”"
	MsgDuplicateAsAria    = "Duplicate “%s” as %s"
	MsgUntitled           = "(no title)"
)

var german = map[string]string{
	MsgNotFound:           "Eintrag nicht gefunden.",
	MsgTypeNotSupported:   "Dieser Inhaltstyp kann nicht dupliziert werden.",
	MsgCannotDuplicate:    "Du hast keine Berechtigung, diesen Eintrag zu duplizieren.",
	MsgTargetMissing:      "Der Ziel-Inhaltstyp existiert nicht.",
	MsgCannotCreateTarget: "Du hast keine Berechtigung, Einträge des Zieltyps zu erstellen.",
	MsgTransformForbidden: "Diese Umwandlung ist nicht erlaubt.",
	MsgSecurityCheck:      "Sicherheitsüberprüfung fehlgeschlagen.",
	MsgNoRecord:           "Kein Eintrag angegeben.",
	MsgMissingParams:      "Erforderliche Parameter fehlen.",
	MsgDuplicationFailed:  "Eintrag konnte nicht dupliziert werden.",
	MsgErrorTitle:         "Fehler beim Duplizieren",
	MsgBackToList:         "Zurück",
	MsgDuplicate:          "Duplizieren",
	MsgDuplicateAs:        "Duplizieren als %s",
	MsgDuplicateAria:      "„%s“ duplizieren",
	MsgDuplicateAsAria:    "„%s“ als %s duplizieren",
	MsgUntitled:           "(kein Titel)",
}
