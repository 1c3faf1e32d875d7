// Package apkg writes a Package into the Anki .apkg format: a zip holding
// an SQLite collection (schema version 11), numbered media files, and a
// JSON media manifest. The emitted collection matches what genanki-based
// tooling produces, so decks import cleanly into Anki.
package apkg

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// Card model shared by every generated note: rule name, question image,
// answer markup.
const (
	ModelID   = 1425153742
	ModelName = "Meta"

	questionFormat = `<div style="display: flex; justify-content: center;">{{Image}}</div>`
	answerFormat   = `<div style="display: flex; justify-content: center;">{{Answer}}</div>`
)

var modelFields = []string{"Rule Name", "Image", "Answer"}

// collectionSchema is the Anki 2 collection DDL, format version 11.
const collectionSchema = `
CREATE TABLE col (
    id integer primary key,
    crt integer not null,
    mod integer not null,
    scm integer not null,
    ver integer not null,
    dty integer not null,
    usn integer not null,
    ls integer not null,
    conf text not null,
    models text not null,
    decks text not null,
    dconf text not null,
    tags text not null
);
CREATE TABLE notes (
    id integer primary key,
    guid text not null,
    mid integer not null,
    mod integer not null,
    usn integer not null,
    tags text not null,
    flds text not null,
    sfld integer not null,
    csum integer not null,
    flags integer not null,
    data text not null
);
CREATE TABLE cards (
    id integer primary key,
    nid integer not null,
    did integer not null,
    ord integer not null,
    mod integer not null,
    usn integer not null,
    type integer not null,
    queue integer not null,
    due integer not null,
    ivl integer not null,
    factor integer not null,
    reps integer not null,
    lapses integer not null,
    left integer not null,
    odue integer not null,
    odid integer not null,
    flags integer not null,
    data text not null
);
CREATE TABLE revlog (
    id integer primary key,
    cid integer not null,
    usn integer not null,
    ease integer not null,
    ivl integer not null,
    lastIvl integer not null,
    factor integer not null,
    time integer not null,
    type integer not null
);
CREATE TABLE graves (
    usn integer not null,
    oid integer not null,
    type integer not null
);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
CREATE INDEX ix_notes_csum ON notes (csum);
`

// modelsJSON builds the col.models blob: a single map keyed by model id.
func modelsJSON(nowSec int64) (string, error) {
	flds := make([]map[string]any, len(modelFields))
	for i, name := range modelFields {
		flds[i] = map[string]any{
			"name":   name,
			"ord":    i,
			"font":   "Liberation Sans",
			"size":   20,
			"media":  []any{},
			"rtl":    false,
			"sticky": false,
		}
	}

	model := map[string]any{
		"id":        ModelID,
		"name":      ModelName,
		"type":      0,
		"mod":       nowSec,
		"usn":       0,
		"sortf":     0,
		"did":       1,
		"flds":      flds,
		"tmpls": []map[string]any{{
			"name":  "Single Image Card",
			"ord":   0,
			"qfmt":  questionFormat,
			"afmt":  answerFormat,
			"bqfmt": "",
			"bafmt": "",
			"did":   nil,
		}},
		"css":       "",
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		"latexPost": "\\end{document}",
		"req":       []any{[]any{0, "all", []any{0}}},
		"tags":      []any{},
		"vers":      []any{},
	}

	data, err := json.Marshal(map[string]any{
		strconv.Itoa(ModelID): model,
	})
	return string(data), err
}

// decksJSON builds the col.decks blob: the mandatory default deck plus one
// entry per generated deck.
func decksJSON(nowSec int64, decks []deckEntry) (string, error) {
	out := map[string]any{
		"1": deckJSON(1, "Default", "", nowSec),
	}
	for _, d := range decks {
		out[strconv.FormatInt(d.id, 10)] = deckJSON(d.id, d.name, d.desc, nowSec)
	}
	data, err := json.Marshal(out)
	return string(data), err
}

type deckEntry struct {
	id   int64
	name string
	desc string
}

func deckJSON(id int64, name, desc string, nowSec int64) map[string]any {
	return map[string]any{
		"id":        id,
		"name":      name,
		"desc":      desc,
		"mod":       nowSec,
		"usn":       0,
		"conf":      1,
		"dyn":       0,
		"collapsed": false,
		"extendNew": 0,
		"extendRev": 50,
		"newToday":  []any{0, 0},
		"revToday":  []any{0, 0},
		"lrnToday":  []any{0, 0},
		"timeToday": []any{0, 0},
	}
}

// confJSON builds the col.conf blob.
func confJSON() (string, error) {
	data, err := json.Marshal(map[string]any{
		"activeDecks":   []any{1},
		"curDeck":       1,
		"curModel":      strconv.Itoa(ModelID),
		"nextPos":       1,
		"newSpread":     0,
		"collapseTime":  1200,
		"timeLim":       0,
		"estTimes":      true,
		"dueCounts":     true,
		"sortType":      "noteDue",
		"sortBackwards": false,
		"addToCur":      true,
		"newBury":       true,
	})
	return string(data), err
}

// dconfJSON builds the col.dconf blob with the default deck options group.
func dconfJSON(nowSec int64) (string, error) {
	data, err := json.Marshal(map[string]any{
		"1": map[string]any{
			"id":       1,
			"name":     "Default",
			"mod":      nowSec,
			"usn":      0,
			"autoplay": true,
			"dyn":      false,
			"maxTaken": 60,
			"replayq":  true,
			"timer":    0,
			"new": map[string]any{
				"bury":          true,
				"delays":        []any{1, 10},
				"initialFactor": 2500,
				"ints":          []any{1, 4, 7},
				"order":         1,
				"perDay":        20,
				"separate":      true,
			},
			"rev": map[string]any{
				"bury":     true,
				"ease4":    1.3,
				"fuzz":     0.05,
				"ivlFct":   1,
				"maxIvl":   36500,
				"minSpace": 1,
				"perDay":   100,
			},
			"lapse": map[string]any{
				"delays":      []any{10},
				"leechAction": 0,
				"leechFails":  8,
				"minInt":      1,
				"mult":        0,
			},
		},
	})
	return string(data), err
}

// fieldChecksum is the Anki note checksum: the first 8 hex digits of the
// sha1 of the sort field, as an integer.
func fieldChecksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return n
}

// guidChars is the alphabet Anki uses for note guids.
const guidChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&()*+,-./:;<=>?@[]^_`{|}~"

// noteGUID derives a stable guid from the note's field values, so
// re-importing an unchanged deck updates notes instead of duplicating them.
func noteGUID(fields []string) string {
	sum := sha1.Sum([]byte(joinFields(fields)))
	var n uint64
	for _, b := range sum[:8] {
		n = n<<8 | uint64(b)
	}

	buf := make([]byte, 0, 10)
	base := uint64(len(guidChars))
	for n > 0 {
		buf = append(buf, guidChars[n%base])
		n /= base
	}
	// reverse
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// fieldSeparator joins note fields in the flds column.
const fieldSeparator = "\x1f"

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += fieldSeparator
		}
		out += f
	}
	return out
}
