// Package tui is the terminal host of the quote wizard.
//
// The bubbletea [Model] owns a [view.Coordinator] of [Page] values, the
// session store every page reads, and the navigation history. Pages never
// talk to each other: the entry page submits a reference, the store fetches
// and derives the quote, and the bill, quote and analysis pages render
// whatever state the store holds when they are mounted.
//
// Each page's Render runs on its own goroutine for as long as the page is
// mounted. It watches the store and sends messages into the program; page
// state itself is only touched from Update.
package tui
