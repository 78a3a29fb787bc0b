package detector

// Fixed structural patterns. These describe universal shapes (emails, URLs,
// digit runs) and are not expected to vary per deployment; everything
// language- or policy-dependent lives in the RuleSet instead.
const (
	emailPattern      = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`
	urlPattern        = `(?i)(?:https?://|www\.)[^\s]+|\b[a-z0-9-]{2,}\.(?:com|net|org|io|co|me)(?:/[^\s]*)?\b`
	handlePattern     = `@[A-Za-z0-9_.]{3,}`
	digitPhonePattern = `\+?\d(?:[\s().-]?\d){6,}`
	addressPattern    = `(?i)\b\d{1,5}\s+(?:[A-Za-z]+\s+){0,2}(?:street|st|avenue|ave|road|rd|lane|ln|drive|dr|boulevard|blvd|court|ct|place|pl|calle|avenida)\b\.?`
	unitPattern       = `(?i)\b(?:apartment|apt|unit|suite|ste|flat|piso)\s*#?\s*\d+[A-Za-z]?\b`
	nameIntroPattern  = `\b(?i:my name is|my name'?s|i am called|you can call me|call me|me llamo|mi nombre es|soy)\s+([A-Z][\w'-]+)`
)

// DefaultRuleSet returns the built-in rule tables. Deployments normally load
// overrides from YAML on top of these (see LoadRuleSet).
func DefaultRuleSet() RuleSet {
	return RuleSet{
		BlockThreshold:    0.85,
		CombinedThreshold: 1.20,
		Placeholder:       "[redacted]",

		SafePhrases: []string{
			`(?:hi+|hey+|hello|yo|howdy|hiya|sup|good (?:morning|afternoon|evening|night))`,
			`how (?:are|r) (?:you|u)(?: doing| today)?`,
			`(?:i'?m |i am )?(?:good|great|fine|ok|okay|not bad)(?:,? (?:you|u|and you|hbu|wbu))?`,
			`what'?s up`,
			`i live in (?:a (?:big|small) (?:city|town)|the (?:city|suburbs|countryside))`,
			`i(?:'m| am) an? (?:engineer|teacher|nurse|student|artist|doctor|lawyer|designer|writer|musician|chef|accountant|programmer|developer|bartender)`,
			`i work in (?:tech|finance|healthcare|education|sales|marketing|construction|media|retail|hospitality)`,
			`you(?:'re| are) (?:really |so |very |pretty )?(?:attractive|cute|funny|sweet|beautiful|gorgeous|hot|charming|interesting)`,
			`that(?:'s| is) (?:fucking |really |so |pretty )?(?:awesome|amazing|great|cool|funny|hilarious|hot|wild)`,
			`(?:lol|lmao|lmfao|haha(?:ha)*|hehe+|omg|wow|nice|same|mood|damn|fuck (?:yeah|yes))`,
			`(?:thanks|thank you|ty|thx)(?: so much| a lot)?`,
			`what do you (?:do for fun|like to do)`,
			`tell me (?:more )?about yourself`,
			`(?:wanna|want to|do you want to) (?:play a game|keep chatting|talk more)`,
		},

		QuickPatterns: []string{
			`@[A-Za-z0-9_.]{3,}`,
			`\d(?:[\s().-]?\d){6,}`,
			`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
			`(?i)\b(?:my name is|my name'?s|call me|me llamo|mi nombre es)\b`,
			`(?i)\b(?:instagram|insta|snapchat|snap|whatsapp|telegram|facebook|fb|tiktok|twitter|discord|linkedin|kik|wechat|vk|onlyfans)\b`,
			`(?i)(?:https?://|www\.)`,
			`(?i)\b(?:i work (?:at|for)|trabajo en|i (?:go|went) to|i attend|i study at|estudio en)\b`,
			`(?i)\b(?:street|avenue|apt|apartment|unit|suite)\b`,
			`(?i)\b(?:zero|oh|one|two|three|four|five|six|seven|eight|nine|cero|uno|dos|tres|cuatro|cinco|seis|siete|ocho|nueve)(?:[ -](?:zero|oh|one|two|three|four|five|six|seven|eight|nine|cero|uno|dos|tres|cuatro|cinco|seis|siete|ocho|nueve)){3,}\b`,
		},

		FirstNames: []string{
			// English
			"james", "john", "robert", "michael", "william", "david", "richard",
			"joseph", "thomas", "charles", "daniel", "matthew", "anthony", "mark",
			"steven", "andrew", "joshua", "kevin", "brian", "george", "timothy",
			"ryan", "jacob", "nicholas", "eric", "jonathan", "tyler", "aaron",
			"mary", "patricia", "jennifer", "linda", "elizabeth", "barbara",
			"susan", "jessica", "sarah", "karen", "lisa", "nancy", "betty",
			"sandra", "ashley", "emily", "emma", "olivia", "sophia", "isabella",
			"mia", "charlotte", "amelia", "hannah", "megan", "lauren", "rachel",
			"samantha", "katie", "chloe", "grace", "zoe", "lily", "ella",
			// Spanish
			"jose", "juan", "carlos", "luis", "jorge", "miguel", "pedro",
			"alejandro", "manuel", "ricardo", "fernando", "javier", "diego",
			"rafael", "sergio", "pablo", "andres", "mateo", "santiago",
			"maria", "carmen", "josefa", "ana", "isabel", "dolores", "pilar",
			"teresa", "rosa", "francisca", "lucia", "elena", "sofia", "valentina",
			"camila", "daniela", "gabriela", "victoria", "natalia", "paula",
		},

		JobTitleGuard: []string{
			"engineer", "doctor", "teacher", "nurse", "manager", "director",
			"developer", "designer", "programmer", "analyst", "consultant",
			"accountant", "lawyer", "architect", "scientist", "student",
			"artist", "chef", "writer", "actor", "dancer", "singer",
			"crazy", "lazy", "happy", "lucky", "sunshine", "baby", "babe",
			"honey", "daddy", "mommy", "shorty", "big", "little", "trouble",
		},

		NumberWords: map[string][]string{
			"english": {"zero", "oh", "one", "two", "three", "four", "five",
				"six", "seven", "eight", "nine", "double", "triple"},
			"spanish": {"cero", "uno", "dos", "tres", "cuatro", "cinco",
				"seis", "siete", "ocho", "nueve", "doble"},
		},

		Platforms: []string{
			"instagram", "insta", "snapchat", "snap", "whatsapp", "telegram",
			"facebook", "fb", "tiktok", "twitter", "discord", "linkedin",
			"kik", "wechat", "vk", "onlyfans",
		},

		EmploymentVerbs: []string{
			`i work at`, `i work for`, `i'?m working at`, `working at`,
			`i am employed (?:at|by)`, `employed (?:at|by)`,
			`my (?:company|employer) is`, `i got a job at`,
			`trabajo en`, `trabajo para`,
		},

		SchoolVerbs: []string{
			`i study at`, `i'?m studying at`, `studying at`,
			`i (?:go|went) to`, `i attend(?:ed)?`,
			`i'?m a (?:student|freshman|sophomore|junior|senior) at`,
			`estudio en`, `estudi[eé] en`,
		},

		Confidence: map[string]float64{
			"email":           0.95,
			"url":             0.90,
			"phone":           0.90,
			"phoneSpelled":    0.85,
			"handle":          0.90,
			"platformMention": 0.60,
			"nameIntro":       0.95,
			"nameDictionary":  0.70,
			"address":         0.80,
			"unit":            0.75,
			"workplace":       0.80,
			"school":          0.80,
		},
	}
}
