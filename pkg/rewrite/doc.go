/*
Package rewrite turns debug-print calls into leveled logging calls.

The rewrite is textual and best effort, it does not parse the file:

 1. an import for the logging facade is added after the last import line when
    the file prints but does not import it yet
 2. debugPrint('text'); and debugPrint("text"); become AppLogger().debug(...)
 3. debug calls whose text starts with a known emoji marker and a space are
    promoted to the marker's level and the marker is dropped

Calls spanning several lines, calls whose literal contains its own quote
character and calls with non-literal arguments are left as they are.
*/
package rewrite
