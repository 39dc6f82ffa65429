package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/catalog/pkg/router"
)

// RouteTable returns the project routes, sorted by path then method.
func (a *Application) RouteTable() []router.RouteInfo {
	r := router.New()
	for _, fn := range a.routesFns {
		fn(r)
	}
	return r.Routes()
}

// PrintRoutes writes the route table to w.
func (a *Application) PrintRoutes(w io.Writer) error {
	infos := a.RouteTable()
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No routes registered.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}
