package dataset

// Sample returns a small built-in labeled set so the trainer and tests can
// run without an external file.
func Sample() []Record {
	records := make([]Record, len(sampleRecords))
	copy(records, sampleRecords)
	return records
}

var sampleRecords = []Record{
	{Text: "AI system to improve crop yield prediction using satellite imagery", Label: 1},
	{Text: "Mobile app connecting farmers directly with local grocery stores", Label: 1},
	{Text: "Subscription platform for renting electric bikes in university campuses", Label: 1},
	{Text: "Solar powered cold storage units for rural vegetable markets", Label: 1},
	{Text: "Telemedicine platform offering remote consultations for elderly patients", Label: 1},
	{Text: "Machine learning tool that detects fraudulent payment transactions", Label: 1},
	{Text: "Online marketplace for second hand textbooks between students", Label: 1},
	{Text: "IoT sensors that monitor soil moisture and automate irrigation", Label: 1},
	{Text: "Chatbot that answers customer support questions for small ecommerce shops", Label: 1},
	{Text: "Battery swapping stations for electric vehicle delivery fleets", Label: 1},
	{Text: "Cloud software that automates invoicing for freelancers", Label: 1},
	{Text: "Drone based delivery of medical supplies to remote clinics", Label: 1},
	{Text: "Recycling kiosks that reward customers for returning plastic bottles", Label: 1},
	{Text: "Edtech platform offering personalised maths tutoring with analytics", Label: 1},
	{Text: "Logistics software optimising truck routes to reduce fuel costs", Label: 1},
	{Text: "Fitness app that builds workout plans from wearable health data", Label: 1},
	{Text: "Booking platform for shared coworking spaces in small towns", Label: 1},
	{Text: "Computer vision system that grades fruit quality on packing lines", Label: 1},
	{Text: "Insurance comparison website for small business owners", Label: 1},
	{Text: "Smart grid analytics that predict household energy demand", Label: 1},
	{Text: "Food waste tracking software for restaurant kitchens", Label: 1},
	{Text: "GPS tracking collars for livestock on large farms", Label: 1},
	{Text: "Blockchain platform for tracing coffee beans through the supply chain", Label: 1},
	{Text: "Rental marketplace for construction equipment with online payment", Label: 1},
	{Text: "Time machine tourism agency offering trips to ancient Rome", Label: 0},
	{Text: "Detect ghost emotions using neural networks and crystal energy", Label: 0},
	{Text: "Perpetual motion generator that powers entire cities for free", Label: 0},
	{Text: "Telepathy based messaging service without phones", Label: 0},
	{Text: "Magic potion that makes people immortal", Label: 0},
	{Text: "Teleportation booths replacing airports worldwide", Label: 0},
	{Text: "Astrology horoscope service that guarantees lottery wins", Label: 0},
	{Text: "Anti gravity boots for commuting above traffic", Label: 0},
	{Text: "Crystal healing clinic that cures every disease instantly", Label: 0},
	{Text: "Selling dragon eggs to collectors", Label: 0},
	{Text: "Mind reading helmet for job interviews", Label: 0},
	{Text: "Resurrect dinosaurs for a theme park next year", Label: 0},
	{Text: "Free energy device that needs no fuel or sunlight", Label: 0},
	{Text: "Become rich by doing nothing at all", Label: 0},
	{Text: "Something cool that everyone will love", Label: 0},
	{Text: "Haunted house detection service using spirit mediums", Label: 0},
	{Text: "Alchemy lab that turns lead into gold", Label: 0},
	{Text: "Psychic hotline that predicts stock prices perfectly", Label: 0},
	{Text: "Vampire blood bank for eternal youth treatments", Label: 0},
	{Text: "Warp drive spaceship rentals to other galaxies", Label: 0},
	{Text: "Levitating cars powered by positive thinking", Label: 0},
	{Text: "Zombie apocalypse insurance sold door to door", Label: 0},
	{Text: "Paranormal investigation subscription for haunted castles", Label: 0},
	{Text: "Fortune telling robot that knows your future", Label: 0},
}
