// Package colomine is an in-memory engine for spatial colocation mining:
// discovering which categorical features keep turning up next to each other,
// and how fresh events cascade around what was already there.
//
// 🚀 What is colomine?
//
//	A pure-Go library that brings together:
//		• Spatial relations: unit and meter distance predicates, or your own
//		• General mining: level-wise (Apriori) colocation search with rules
//		• Emergent mining: time-bucketed cascade search with cascade rules
//		• Thin collaborators: CSV import/export, YAML config, a cobra CLI
//
// Under the hood, everything is organized under these subpackages:
//
//	spatial/     Point, Relation (unit / meter / custom) & grid-bucketed joins
//	colocation/  itemsets, table instances, prevalence, rules & the General Miner
//	emergent/    time buckets, match tables, cascade rules & the Emergent Miner
//	config/      YAML run configuration with the classic defaults
//	dataset/     CSV readers for feature instances and timed events
//	export/      CSV writers (k<k>.csv, <time>.csv) and rule dumps
//
// Quick ASCII example (unit relation, threshold 2.3):
//
//	    ●A   ○B
//	      ▲C
//
// Instances of A, B and C within reach of one another form the table
// instance of the itemset {A, B, C}; its prevalence is the smallest share
// of any category's instances taking part.
//
//	go get github.com/katalvlaran/colomine
package colomine
