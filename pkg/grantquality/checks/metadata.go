package checks

var NoLastModified = &Kind{
	Name:     "NoLastModified",
	Class:    Usefulness,
	Category: CategoryMetadata,
	Heading:  "not have Last Modified information",
	Verb:     "do",
	Messages: always("Last Modified shows the date and time when information about a grant was last " +
		"updated in your file. Including this information allows data users to see when changes " +
		"have been made and reconcile differences between versions of your data."),
	process: missing("dateModified"),
}

var NoDataSource = &Kind{
	Name:     "NoDataSource",
	Class:    Usefulness,
	Category: CategoryMetadata,
	Heading:  "not have Data Source information",
	Verb:     "do",
	Messages: always("Data Source is a web link pointing to the source of this data. " +
		"It informs users about where information came from and is an important part of " +
		"establishing trust in your data. This may be a link to an original 360Giving data file, " +
		"a file from which the data was converted, or your organisation’s website."),
	process: missing("dataSource"),
}
