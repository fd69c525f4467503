package config

// DefaultSubjects is the subject list of the Spring 2025-26 class schedule
var DefaultSubjects = []string{
	"ACCT", "AESF", "AIAA", "AISC", "AMAT", "AMCC", "ARIN", "BEHI", "BIBU", "BIEN",
	"BSBE", "BTEC", "CENG", "CHEM", "CHMS", "CIEM", "CIVL", "CMAA", "COMP", "CPEG",
	"CSIT", "CTDL", "DASC", "DBAP", "DRAP", "DSAA", "DSCT", "ECON", "EEMT", "EESM",
	"ELEC", "EMIA", "ENEG", "ENGG", "ENTR", "ENVR", "ENVS", "EOAS", "EVNG", "EVSM",
	"FINA", "FOFB", "FTEC", "GBUS", "GNED", "HLTH", "HMAW", "HMMA", "HUMA", "IBTM",
	"IEDA", "IIMP", "INTR", "IOTA", "IPEN", "ISDN", "ISOM", "JEVE", "LABU", "LANG",
	"LIFS", "MAED", "MAFS", "MAIE", "MARK", "MASS", "MATH", "MCEE", "MECH", "MESF",
	"MFIT", "MGCS", "MGMT", "MICS", "MILE", "MIMT", "MSBD", "MSDM", "MSPY", "MTLE",
	"NANO", "OCES", "PDEV", "PHYS", "PPOL", "RMBI", "ROAS", "SBMT", "SCIE", "SEEN",
	"SGFN", "SHSS", "SMMG", "SOSC", "SUST", "TEMG", "UCOP", "UGOD", "UPOP", "UROP",
	"UTOP", "WBBA",
}
