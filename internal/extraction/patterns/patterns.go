// Package patterns is the immutable catalog of matching rules for U.S.
// court-opinion parsing: compiled regular expressions and ordered
// keyword-to-category tables covering captions, citations, dates, courts,
// judges, counsel, topics, industries, dispositions, procedural posture,
// monetary amounts, and evidence types.
//
// Ordering is a first-class part of the contract.  Several patterns can match
// the same span and only one may be chosen, so every first-match-wins table
// is declared as an ordered slice, never a map.  No logic lives here beyond
// pattern declaration; the pipeline in internal/extraction owns all
// disambiguation.
//
// All regexes run on Go's RE2 engine, which is linear-time in the input and
// therefore bounded on adversarial text.
package patterns

import (
	"regexp"

	"github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

// CourtPattern maps a court-name regex to a display template and a
// jurisdiction level.  Template may contain a single "{}" placeholder filled
// from the pattern's first capture group.
type CourtPattern struct {
	Re       *regexp.Regexp
	Template string
	Level    caselaw.Jurisdiction
}

// KeywordRule associates a lowercase keyword with its canonical category.
type KeywordRule struct {
	Keyword  string
	Category string
}

// TopicRule associates a lowercase keyword with a (topic, cause) pair.  The
// two output fields are jointly set from a single matched rule.
type TopicRule struct {
	Keyword string
	Topic   string
	Cause   string
}

// ─────────────────────────────────────────────────────────────────────────────
// Case captions
// ─────────────────────────────────────────────────────────────────────────────

// CaseName matches a same-line "<Name> v. <Name>" caption.  Party names must
// start with an uppercase letter; the separator accepts "v.", "v", "vs.".
var CaseName = regexp.MustCompile(
	`([A-Z][a-zA-Z.\s&,'-]+)\s+(?i:vs?\.?)\s*([A-Z][a-zA-Z.\s&,'-]+)`)

// PlaintiffCaption matches a party block immediately followed (next line) by
// a Plaintiff/Petitioner/Appellant label, tolerating a trailing corporate
// designation on the name line.
var PlaintiffCaption = regexp.MustCompile(
	`([A-Z][^,\n]+?)(?:,\s*(?i:a\s+\w+\s+corporation|Inc\.|Corp\.|LLC))?\s*,?\s*\n\s*(?i:Plaintiff|Petitioner|Appellant)`)

// DefendantCaption matches the "v." line followed by the defendant block and
// its Defendant/Respondent/Appellee label.
var DefendantCaption = regexp.MustCompile(
	`(?i:v)\.?\s*\n\s*([A-Z][^,\n]+?)(?:,\s*(?i:a\s+\w+\s+corporation|Inc\.|Corp\.|LLC))?\s*,?\s*\n\s*(?i:Defendant|Respondent|Appellee)`)

// ─────────────────────────────────────────────────────────────────────────────
// Citations
// ─────────────────────────────────────────────────────────────────────────────

// Citations are the reporter patterns in priority order: U.S. Reports,
// Supreme Court Reporter, Federal Reporter (2d/3d/4th), Federal Supplement,
// Lawyers' Edition.  The first pattern that matches anywhere in the text
// wins, and the entire matched substring is the citation.
var Citations = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s+U\.?S\.?\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+S\.?\s*Ct\.?\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+F\.?\s*(?:2d|3d|4th)?\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+F\.?\s*Supp\.?\s*(?:2d|3d)?\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+L\.?\s*Ed\.?\s*(?:2d)?\s+(\d+)`),
}

// ─────────────────────────────────────────────────────────────────────────────
// Dates
// ─────────────────────────────────────────────────────────────────────────────

// Dates are tried in order from most to least specific; the bare
// "Month D, YYYY" form is the last-resort fallback.
var Dates = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:decided|filed|dated|argued)[\s:]+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
}

// DateLayouts are the parse formats tried in order against a matched date
// string; the first that parses wins and output is normalized to YYYY-MM-DD.
var DateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"1/2/2006",
	"2006-01-02",
}

// ─────────────────────────────────────────────────────────────────────────────
// Courts
// ─────────────────────────────────────────────────────────────────────────────

// Courts are applied in declaration order; first match wins.  The federal
// patterns come first so that "Supreme Court of <state>" cannot shadow the
// U.S. Supreme Court.
var Courts = []CourtPattern{
	{
		Re:       regexp.MustCompile(`(?i)Supreme\s+Court\s+of\s+the\s+United\s+States`),
		Template: "Supreme Court of the United States",
		Level:    caselaw.JurisdictionFederal,
	},
	{
		Re:       regexp.MustCompile(`(?i)UNITED\s+STATES\s+COURT\s+OF\s+APPEALS\s+FOR\s+THE\s+(\w+)\s+CIRCUIT`),
		Template: "U.S. Court of Appeals for the {} Circuit",
		Level:    caselaw.JurisdictionFederal,
	},
	{
		Re:       regexp.MustCompile(`(?i)U\.?S\.?\s+Court\s+of\s+Appeals.*?(?:for\s+the\s+)?(\w+)\s+Circuit`),
		Template: "U.S. Court of Appeals for the {} Circuit",
		Level:    caselaw.JurisdictionFederal,
	},
	{
		Re:       regexp.MustCompile(`(?i)United\s+States\s+District\s+Court.*?(?:for\s+the\s+)?(?:Southern|Northern|Eastern|Western|Central)?\s*District\s+of\s+(\w+)`),
		Template: "U.S. District Court for the District of {}",
		Level:    caselaw.JurisdictionFederal,
	},
	{
		Re:       regexp.MustCompile(`(?i)(\w+)\s+Circuit\s+Court\s+of\s+Appeals`),
		Template: "U.S. Court of Appeals for the {} Circuit",
		Level:    caselaw.JurisdictionFederal,
	},
	{
		Re:       regexp.MustCompile(`(?i)(\w+),?\s+(?:HURWITZ|NGUYEN|and\s+\w+),?\s+Circuit\s+Judges`),
		Template: "U.S. Court of Appeals for the {} Circuit",
		Level:    caselaw.JurisdictionFederal,
	},
	{
		Re:       regexp.MustCompile(`(?i)Supreme\s+Court\s+of\s+(\w+)`),
		Template: "Supreme Court of {}",
		Level:    caselaw.JurisdictionState,
	},
	{
		Re:       regexp.MustCompile(`(?i)Court\s+of\s+Appeals?\s+of\s+(\w+)`),
		Template: "Court of Appeals of {}",
		Level:    caselaw.JurisdictionState,
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// Judges
// ─────────────────────────────────────────────────────────────────────────────

// Judges look for honorifics preceding or following a capitalized one- or
// two-token name; all matches from all four patterns are pooled.
var Judges = []*regexp.Regexp{
	regexp.MustCompile(`(?i:Before|Per\s+Curiam|Opinion\s+by|Judge|Justice)[:\s]+([A-Z][a-zA-Z]+(?:\s+[A-Z]\.)?\s+[A-Z][a-zA-Z]+)`),
	regexp.MustCompile(`([A-Z][a-zA-Z]+),\s*(?:C\.?)?J\.?,?\s*(?i:delivered|wrote|authored)`),
	regexp.MustCompile(`(?i:(?:Chief\s+)?Justice)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z]\.)?\s+[A-Z][a-zA-Z]+)`),
	regexp.MustCompile(`(?i:(?:Circuit|District)\s+Judge)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z]\.)?\s+[A-Z][a-zA-Z]+)`),
}

// JudgeFalsePositives are substrings (matched case-insensitively against the
// candidate name) that disqualify a judge candidate.
var JudgeFalsePositives = []string{
	"court", "state", "united", "this case", "the case", "case involves",
}

// MaxJudges caps the judges list; beyond this the field stops being a roster
// and starts being noise.
const MaxJudges = 10

// ─────────────────────────────────────────────────────────────────────────────
// Counsel
// ─────────────────────────────────────────────────────────────────────────────

// CounselPlaintiff captures the name block following a "for the
// plaintiff/petitioner/appellant" clause, up to a sentence boundary or the
// start of the opposing counsel clause.
var CounselPlaintiff = regexp.MustCompile(
	`(?i:for\s+(?:the\s+)?(?:plaintiff|petitioner|appellant)s?)[\s:,]+([A-Z][a-zA-Z.\s,&]+?)(?:\.|;|\n|(?i:for\s+(?:the\s+)?(?:defendant|respondent)))`)

// CounselDefense is the defense-side counterpart of CounselPlaintiff.
var CounselDefense = regexp.MustCompile(
	`(?i:for\s+(?:the\s+)?(?:defendant|respondent|appellee)s?)[\s:,]+([A-Z][a-zA-Z.\s,&]+?)(?:\.|;|\n|$)`)

// AttorneySplit separates a captured counsel block into candidate names.
var AttorneySplit = regexp.MustCompile(`[;,]|\band\b`)

// CounselFillerPrefixes disqualify split fragments that are clause debris
// rather than names.
var CounselFillerPrefixes = []string{"for ", "the "}

// MaxCounsel caps the attorney list per side.
const MaxCounsel = 5

// ─────────────────────────────────────────────────────────────────────────────
// Subject matter
// ─────────────────────────────────────────────────────────────────────────────

// Topics map a keyword to a (primary topic, specific cause of action) pair.
// Declaration order is the priority order: the first keyword found in the
// lowercased text supplies both output fields.
var Topics = []TopicRule{
	{"patent", "Intellectual Property", "Patent Infringement"},
	{"trademark", "Intellectual Property", "Trademark Infringement"},
	{"copyright", "Intellectual Property", "Copyright Infringement"},
	{"trade secret", "Intellectual Property", "Trade Secret Misappropriation"},

	{"breach of contract", "Contract", "Breach of Contract"},
	{"contract dispute", "Contract", "Contract Dispute"},
	{"specific performance", "Contract", "Specific Performance"},

	{"negligence", "Tort", "Negligence"},
	{"malpractice", "Tort", "Professional Malpractice"},
	{"defamation", "Tort", "Defamation"},
	{"fraud", "Tort", "Fraud"},
	{"product liability", "Tort", "Product Liability"},

	{"first amendment", "Constitutional Law", "First Amendment"},
	{"fourth amendment", "Constitutional Law", "Fourth Amendment"},
	{"due process", "Constitutional Law", "Due Process"},
	{"equal protection", "Constitutional Law", "Equal Protection"},

	{"discrimination", "Employment", "Employment Discrimination"},
	{"wrongful termination", "Employment", "Wrongful Termination"},
	{"title vii", "Employment", "Title VII Discrimination"},

	{"criminal", "Criminal", "Criminal Prosecution"},
	{"murder", "Criminal", "Murder"},
	{"robbery", "Criminal", "Robbery"},

	{"antitrust", "Antitrust", "Antitrust Violation"},
	{"sherman act", "Antitrust", "Sherman Act Violation"},

	{"securities", "Securities", "Securities Fraud"},
	{"10b-5", "Securities", "Rule 10b-5 Violation"},

	{"environmental", "Environmental", "Environmental Violation"},
	{"clean air", "Environmental", "Clean Air Act Violation"},
	{"clean water", "Environmental", "Clean Water Act Violation"},
}

// Industries map a keyword to an industry sector, first match wins.
var Industries = []KeywordRule{
	{"pharmaceutical", "Pharmaceuticals"},
	{"drug", "Pharmaceuticals"},
	{"medicine", "Pharmaceuticals"},
	{"technology", "Technology"},
	{"software", "Technology"},
	{"computer", "Technology"},
	{"telecommunication", "Telecommunications"},
	{"wireless", "Telecommunications"},
	{"bank", "Banking & Finance"},
	{"financial", "Banking & Finance"},
	{"insurance", "Insurance"},
	{"healthcare", "Healthcare"},
	{"hospital", "Healthcare"},
	{"automobile", "Automotive"},
	{"vehicle", "Automotive"},
	{"energy", "Energy"},
	{"oil", "Energy"},
	{"gas", "Energy"},
	{"retail", "Retail"},
	{"manufacturing", "Manufacturing"},
	{"construction", "Construction"},
	{"real estate", "Real Estate"},
	{"entertainment", "Entertainment"},
	{"media", "Media"},
	{"airline", "Aviation"},
	{"aviation", "Aviation"},
	{"agriculture", "Agriculture"},
	{"food", "Food & Beverage"},
}

// ─────────────────────────────────────────────────────────────────────────────
// Procedure and outcome
// ─────────────────────────────────────────────────────────────────────────────

// Postures map a keyword to a procedural posture, first match wins over the
// whole lowercased text.
var Postures = []KeywordRule{
	{"motion to dismiss", "Motion to Dismiss"},
	{"summary judgment", "Summary Judgment"},
	{"appeal", "Appeal"},
	{"certiorari", "Certiorari"},
	{"habeas corpus", "Habeas Corpus"},
	{"preliminary injunction", "Preliminary Injunction"},
	{"class action", "Class Action"},
	{"trial", "Trial"},
	{"bench trial", "Bench Trial"},
	{"jury trial", "Jury Trial"},
}

// Dispositions map a keyword to the court's ruling action.  Declaration
// order is the priority order; note that "affirmed" deliberately precedes
// "affirmed in part", so a partial ruling resolves to the broader category.
var Dispositions = []KeywordRule{
	{"affirmed", "Affirmed"},
	{"reversed", "Reversed"},
	{"remanded", "Remanded"},
	{"vacated", "Vacated"},
	{"dismissed", "Dismissed"},
	{"denied", "Denied"},
	{"granted", "Granted"},
	{"modified", "Modified"},
	{"affirmed in part", "Affirmed in Part"},
	{"reversed in part", "Reversed in Part"},
}

// DispositionTailWindow is how many characters of the end of the document
// are scanned first for a disposition keyword.  Dispositions normally appear
// in closing paragraphs; the locality bias keeps a mid-document reference to
// a lower court's ruling from being read as the instant holding.
const DispositionTailWindow = 2000

// AppellantHeadWindow is how many leading characters are checked for the
// word "appellant" as a proxy for "plaintiff was the appealing party".
const AppellantHeadWindow = 1000

// ─────────────────────────────────────────────────────────────────────────────
// Money
// ─────────────────────────────────────────────────────────────────────────────

// Money matches "$1,234.56" style amounts or "<digits> dollars", each
// optionally followed by million/billion.  The scale word is resolved by the
// pipeline from a character window around the amount, not from the regex.
var Money = regexp.MustCompile(
	`(?i)\$\s*([\d,]+(?:\.\d{2})?)(?:\s*(?:million|billion))?|([\d,]+(?:\.\d{2})?)\s*(?:million|billion)?\s*dollars`)

// MoneyContextWindow is the radius, in characters, of the window inspected
// around an amount for million/billion scaling.
const MoneyContextWindow = 50

// ─────────────────────────────────────────────────────────────────────────────
// Evidence
// ─────────────────────────────────────────────────────────────────────────────

// Evidence maps keywords to the fixed evidence-type taxonomy.  This is a
// membership test, not a priority lookup — every matching category is kept —
// so ordering here is cosmetic.
var Evidence = []KeywordRule{
	{"document", "Documentary Evidence"},
	{"documents", "Documentary Evidence"},
	{"contract", "Documentary Evidence"},
	{"email", "Documentary Evidence"},
	{"emails", "Documentary Evidence"},
	{"letter", "Documentary Evidence"},
	{"memo", "Documentary Evidence"},
	{"memorandum", "Documentary Evidence"},
	{"record", "Documentary Evidence"},
	{"records", "Documentary Evidence"},
	{"written agreement", "Documentary Evidence"},
	{"invoice", "Documentary Evidence"},
	{"receipt", "Documentary Evidence"},
	{"financial statement", "Documentary Evidence"},
	{"bank statement", "Documentary Evidence"},

	{"testimony", "Testimonial Evidence"},
	{"testified", "Testimonial Evidence"},
	{"witness", "Testimonial Evidence"},
	{"witnesses", "Testimonial Evidence"},
	{"deposition", "Testimonial Evidence"},
	{"affidavit", "Testimonial Evidence"},
	{"declaration", "Testimonial Evidence"},
	{"sworn statement", "Testimonial Evidence"},
	{"eyewitness", "Testimonial Evidence"},

	{"expert witness", "Expert Testimony"},
	{"expert testimony", "Expert Testimony"},
	{"expert opinion", "Expert Testimony"},
	{"expert report", "Expert Testimony"},
	{"forensic", "Expert Testimony"},
	{"forensic analysis", "Expert Testimony"},
	{"forensic expert", "Expert Testimony"},
	{"medical expert", "Expert Testimony"},
	{"technical expert", "Expert Testimony"},
	{"economist", "Expert Testimony"},

	{"physical evidence", "Physical Evidence"},
	{"exhibit", "Physical Evidence"},
	{"exhibits", "Physical Evidence"},
	{"photograph", "Physical Evidence"},
	{"photographs", "Physical Evidence"},
	{"video", "Physical Evidence"},
	{"video recording", "Physical Evidence"},
	{"surveillance", "Physical Evidence"},
	{"dna", "Physical Evidence"},
	{"fingerprint", "Physical Evidence"},
	{"weapon", "Physical Evidence"},

	{"digital evidence", "Digital Evidence"},
	{"electronic record", "Digital Evidence"},
	{"electronic records", "Digital Evidence"},
	{"metadata", "Digital Evidence"},
	{"computer record", "Digital Evidence"},
	{"server log", "Digital Evidence"},
	{"database", "Digital Evidence"},
	{"text message", "Digital Evidence"},
	{"social media", "Digital Evidence"},
	{"ip address", "Digital Evidence"},
	{"electronic communication", "Digital Evidence"},

	{"statistical", "Statistical Evidence"},
	{"statistical analysis", "Statistical Evidence"},
	{"data analysis", "Statistical Evidence"},
	{"regression analysis", "Statistical Evidence"},
	{"survey", "Statistical Evidence"},
	{"poll", "Statistical Evidence"},

	{"circumstantial", "Circumstantial Evidence"},
	{"inference", "Circumstantial Evidence"},
	{"motive", "Circumstantial Evidence"},
	{"opportunity", "Circumstantial Evidence"},

	{"character evidence", "Character Evidence"},
	{"prior conviction", "Character Evidence"},
	{"criminal history", "Character Evidence"},
	{"reputation", "Character Evidence"},
}

// ─────────────────────────────────────────────────────────────────────────────
// Party classification
// ─────────────────────────────────────────────────────────────────────────────

// GovernmentKeywords identify government entities by name surface form.
// These are checked strictly before CorporateKeywords: some government names
// also carry corporate-sounding words ("Commission", "Authority"), and the
// government reading must win.
var GovernmentKeywords = []string{
	"united states", "state of", "city of", "county of",
	"department", "agency", "commission", "board", "authority",
	"secretary", "attorney general", "commissioner",
}

// CorporateKeywords identify corporate entities by suffix or form word.
var CorporateKeywords = []string{
	"inc", "corp", "llc", "llp", "ltd", "company", "co.",
	"corporation", "incorporated", "limited", "partners",
	"association", "foundation", "group", "holdings",
}

// CaptionScanLines bounds the line-by-line fallback caption scan to the head
// of the document, where captions live.
const CaptionScanLines = 30

// MinPartyNameLen is the minimum trimmed length for either side of a caption.
const MinPartyNameLen = 3

// Whitespace collapses runs of whitespace during name cleanup.
var Whitespace = regexp.MustCompile(`\s+`)
