// Package batch walks a review export and downloads the images one category
// selects.
//
// A Processor reads the export, provisions the category folder, then handles
// each review in order: references are normalized to their canonical size,
// reduced to a filename and claimed in a VisitedSet before the download is
// attempted. Every review ends up counted as downloaded, skipped or errored.
//
//	p := batch.New(cfg)
//	for _, cat := range cfg.EnabledCategories() {
//	    summary, err := p.Run(cat)
//	    ...
//	}
package batch
