package taxonomy

// DefaultFallback receives files no category claims with enough confidence.
const DefaultFallback = "documents/misc"

// defaultCategories is the built-in tree. Extensions carry the strongest
// signal, so ubiquitous formats (.pdf, .txt) are deliberately unlisted and
// left to keyword evidence. Screenshots share .png with photos but rank
// behind them on priority, so only a screenshot-ish name wins them a file.
var defaultCategories = []Category{
	{
		Path:       "work/documents",
		Keywords:   []string{"memo", "proposal", "meeting", "agenda", "minutes", "letter"},
		Extensions: []string{".doc", ".docx", ".rtf", ".odt", ".pages"},
		Synonyms:   []string{"docs"},
	},
	{
		Path:       "work/presentations",
		Keywords:   []string{"presentation", "slides", "deck", "pitch", "keynote"},
		Extensions: []string{".ppt", ".pptx", ".key", ".odp"},
		Synonyms:   []string{"slides", "decks"},
	},
	{
		Path:       "work/spreadsheets",
		Keywords:   []string{"budget", "spreadsheet", "forecast", "expenses"},
		Extensions: []string{".xls", ".xlsx", ".csv", ".numbers", ".ods"},
		Synonyms:   []string{"sheets"},
	},
	{
		Path:     "work/reports",
		Keywords: []string{"report", "quarterly", "annual", "summary", "review"},
	},
	{
		Path:     "work/contracts",
		Keywords: []string{"contract", "agreement", "nda", "legal", "terms"},
		Synonyms: []string{"legal"},
	},
	{
		Path:       "education/textbooks",
		Keywords:   []string{"textbook", "chapter", "edition"},
		Extensions: []string{".epub", ".mobi"},
		Synonyms:   []string{"books"},
	},
	{
		Path:     "education/courses",
		Keywords: []string{"course", "lecture", "syllabus", "assignment", "homework", "tutorial"},
		Synonyms: []string{"classes"},
	},
	{
		Path:     "education/research",
		Keywords: []string{"research", "paper", "study", "journal", "thesis", "dissertation", "abstract"},
		Synonyms: []string{"papers"},
	},
	{
		Path:     "education/notes",
		Keywords: []string{"notes", "outline", "flashcards"},
	},
	{
		Path:     "education/certificates",
		Keywords: []string{"certificate", "diploma", "transcript", "award"},
		Synonyms: []string{"certs"},
	},
	{
		Path:       "medical/imaging",
		Keywords:   []string{"radiology", "xray", "x-ray", "mri", "ct scan", "ultrasound", "imaging", "dicom", "mammogram"},
		Extensions: []string{".dcm", ".dicom"},
		Synonyms:   []string{"radiology", "scans", "scan", "xray"},
	},
	{
		Path:     "medical/anatomy",
		Keywords: []string{"anatomy", "anatomical", "physiology", "skeletal", "muscular"},
	},
	{
		Path:     "medical/pathology",
		Keywords: []string{"pathology", "biopsy", "lab", "laboratory", "bloodwork", "specimen"},
		Synonyms: []string{"labs", "lab", "laboratory"},
	},
	{
		Path:     "medical/clinical",
		Keywords: []string{"clinical", "patient", "diagnosis", "treatment", "prescription", "medication", "referral"},
		Synonyms: []string{"medications", "medication", "drug"},
	},
	{
		Path:       "creative/photos",
		Keywords:   []string{"photo", "image", "picture", "portrait", "wallpaper"},
		Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".heic", ".tiff", ".bmp", ".webp", ".raw"},
		Synonyms:   []string{"pictures", "images"},
	},
	{
		Path:       "creative/videos",
		Keywords:   []string{"video", "movie", "clip", "footage", "recording"},
		Extensions: []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".webm"},
		Synonyms:   []string{"movies"},
	},
	{
		Path:       "creative/audio",
		Keywords:   []string{"audio", "music", "song", "podcast", "voice"},
		Extensions: []string{".mp3", ".wav", ".aac", ".flac", ".m4a", ".ogg"},
		Synonyms:   []string{"music"},
	},
	{
		Path:       "creative/design",
		Keywords:   []string{"design", "logo", "mockup", "wireframe", "branding"},
		Extensions: []string{".psd", ".ai", ".sketch", ".fig", ".xd", ".svg"},
	},
	{
		Path:       "development/code",
		Keywords:   []string{"script", "source", "snippet"},
		Extensions: []string{".py", ".js", ".ts", ".go", ".java", ".c", ".cpp", ".h", ".rb", ".rs", ".sh", ".sql", ".json", ".xml", ".yaml", ".yml", ".toml"},
		Synonyms:   []string{"programming", "src"},
	},
	{
		Path:       "development/documentation",
		Keywords:   []string{"readme", "changelog", "api", "manual", "guide"},
		Extensions: []string{".md"},
		Synonyms:   []string{"docs"},
	},
	{
		Path:     "personal/finances",
		Keywords: []string{"tax", "invoice", "receipt", "statement", "bank", "insurance", "bill", "payment", "payroll"},
		Synonyms: []string{"finance", "financial", "money"},
	},
	{
		Path:     "personal/health",
		Keywords: []string{"fitness", "workout", "diet", "nutrition", "checkup"},
		Synonyms: []string{"wellness"},
	},
	{
		Path:     "personal/travel",
		Keywords: []string{"travel", "itinerary", "boarding", "flight", "hotel", "booking", "visa", "passport"},
		Synonyms: []string{"trips"},
	},
	{
		Path:     "personal/family",
		Keywords: []string{"family", "birthday", "wedding", "anniversary"},
	},
	{
		Path:       "personal/screenshots",
		Keywords:   []string{"screenshot", "screen shot", "capture"},
		Extensions: []string{".png"},
		Priority:   120,
	},
	{
		Path:       "utilities/archives",
		Keywords:   []string{"backup", "archive", "installer", "setup"},
		Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".dmg", ".iso", ".pkg", ".msi"},
		Synonyms:   []string{"backups"},
	},
	{
		Path:     "utilities/templates",
		Keywords: []string{"template", "form", "blank", "boilerplate"},
		Synonyms: []string{"forms"},
	},
}

// Default returns the built-in taxonomy. It always validates; a failure here
// is a programming error.
func Default() *Taxonomy {
	t, err := New(defaultCategories, DefaultFallback)
	if err != nil {
		panic("taxonomy: invalid built-in categories: " + err.Error())
	}
	return t
}
