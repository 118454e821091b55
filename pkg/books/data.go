package books

// Built-in sample lists, handy for trying the tool without a spreadsheet.

func SampleTextbooks() []Raw {
	return []Raw{
		{BookName: "Physics Part 1", Subject: "Physics", Publisher: "N/A", Price: 150},
		{BookName: "Chemistry Part 1", Subject: "Chemistry", Publisher: "N/A", Price: 160},
		{BookName: "Mathematics", Subject: "Math", Publisher: "N/A", Price: 180},
		{BookName: "English Reader", Subject: "English", Publisher: "N/A", Price: 120},
		{BookName: "Computer Science", Subject: "Computers", Publisher: "N/A", Price: 135},
	}
}

func SampleNotebooks() []Raw {
	return []Raw{
		{BookName: "Single Line A4 Notebook", Subject: "General", Publisher: "N/A", Price: 40},
		{BookName: "Graph Book", Subject: "Math", Publisher: "N/A", Price: 35},
		{BookName: "Unruled A5 Sketchbook", Subject: "Drawing", Publisher: "N/A", Price: 30},
		{BookName: "Practical Journal", Subject: "Science", Publisher: "N/A", Price: 55},
	}
}
