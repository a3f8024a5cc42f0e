// Package nelo implements providers.Scraper for Manganelo-style sites: a
// chapter list of `a.chapter-name.text-nowrap` anchors and a reader page whose
// `div.container-chapter-reader` holds lazily loaded page images.
package nelo
